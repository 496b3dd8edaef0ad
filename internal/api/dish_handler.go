package api

import (
	"net/http"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DishHandler handles /dishes endpoints
type DishHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDishHandler creates a new DishHandler
func NewDishHandler(services *service.Services, log zerolog.Logger) *DishHandler {
	return &DishHandler{
		services: services,
		log:      log.With().Str("handler", "dish").Logger(),
	}
}

// ListDishes handles GET /dishes
func (h *DishHandler) ListDishes(c *gin.Context) {
	dishes, err := h.services.Dish.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// CreateDish handles POST /dishes
func (h *DishHandler) CreateDish(c *gin.Context) {
	var req models.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// DeleteDishes handles DELETE /dishes
func (h *DishHandler) DeleteDishes(c *gin.Context) {
	result, err := h.services.Dish.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDish handles GET /dishes/:dishId
func (h *DishHandler) GetDish(c *gin.Context) {
	dish, err := h.services.Dish.Get(c.Request.Context(), c.Param("dishId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// UpdateDish handles PUT /dishes/:dishId
func (h *DishHandler) UpdateDish(c *gin.Context) {
	var update models.DishUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.Update(c.Request.Context(), c.Param("dishId"), &update)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// DeleteDish handles DELETE /dishes/:dishId
func (h *DishHandler) DeleteDish(c *gin.Context) {
	dish, err := h.services.Dish.Delete(c.Request.Context(), c.Param("dishId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// ListComments handles GET /dishes/:dishId/comments
func (h *DishHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Dish.ListComments(c.Request.Context(), c.Param("dishId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment handles POST /dishes/:dishId/comments. The author is always
// the authenticated user.
func (h *DishHandler) AddComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.AddComment(c.Request.Context(), principalID(c), c.Param("dishId"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// ClearComments handles DELETE /dishes/:dishId/comments
func (h *DishHandler) ClearComments(c *gin.Context) {
	dish, err := h.services.Dish.ClearComments(c.Request.Context(), c.Param("dishId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// GetComment handles GET /dishes/:dishId/comments/:commentId
func (h *DishHandler) GetComment(c *gin.Context) {
	comment, err := h.services.Dish.GetComment(c.Request.Context(), c.Param("dishId"), c.Param("commentId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// UpdateComment handles PUT /dishes/:dishId/comments/:commentId
func (h *DishHandler) UpdateComment(c *gin.Context) {
	var update models.CommentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.UpdateComment(c.Request.Context(), principalID(c), c.Param("dishId"), c.Param("commentId"), &update)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// DeleteComment handles DELETE /dishes/:dishId/comments/:commentId
func (h *DishHandler) DeleteComment(c *gin.Context) {
	dish, err := h.services.Dish.DeleteComment(c.Request.Context(), principalID(c), c.Param("dishId"), c.Param("commentId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// unsupported answers verbs a resource does not implement
func unsupported(verb string, path func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": verb + " operation not supported on " + path(c),
		})
	}
}

func dishesPath(c *gin.Context) string {
	return "/dishes"
}

func dishPath(c *gin.Context) string {
	return "/dishes/" + c.Param("dishId")
}

func commentsPath(c *gin.Context) string {
	return dishPath(c) + "/comments"
}

func commentPath(c *gin.Context) string {
	return commentsPath(c) + "/" + c.Param("commentId")
}

func principalID(c *gin.Context) string {
	if p := principalFrom(c); p != nil {
		return p.ID
	}
	return ""
}
