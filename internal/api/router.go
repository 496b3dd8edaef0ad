package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/dossiman/coursera-fullstack-web-dev/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// healthTimeout bounds the store ping of /health
const healthTimeout = 2 * time.Second

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, store Pinger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))

	anyOrigin := corsAnyOrigin()
	whitelist := corsWhitelist(cfg.CORS.AllowedOrigins)

	// Guards
	user := requireUser(services.User)
	admin := requireAdmin

	// Handlers
	dishHandler := NewDishHandler(services, log)
	userHandler := NewUserHandler(services, log)
	g := func(h gin.HandlerFunc, guards ...guard) gin.HandlerFunc {
		return guarded(log, h, guards...)
	}

	// Health check
	router.GET("/health", healthCheck(store))
	router.GET("/metrics", metricsHandler(services))

	dishes := router.Group("/dishes")
	{
		dishes.OPTIONS("", whitelist, optionsOK)
		dishes.GET("", anyOrigin, dishHandler.ListDishes)
		dishes.POST("", whitelist, g(dishHandler.CreateDish, user, admin))
		dishes.PUT("", whitelist, g(unsupported("PUT", dishesPath), user, admin))
		dishes.DELETE("", whitelist, g(dishHandler.DeleteDishes, user, admin))

		dishes.OPTIONS("/:dishId", whitelist, optionsOK)
		dishes.GET("/:dishId", anyOrigin, dishHandler.GetDish)
		dishes.POST("/:dishId", whitelist, g(unsupported("POST", dishPath), user, admin))
		dishes.PUT("/:dishId", whitelist, g(dishHandler.UpdateDish, user, admin))
		dishes.DELETE("/:dishId", whitelist, g(dishHandler.DeleteDish, user, admin))

		dishes.OPTIONS("/:dishId/comments", whitelist, optionsOK)
		dishes.GET("/:dishId/comments", anyOrigin, dishHandler.ListComments)
		dishes.POST("/:dishId/comments", whitelist, g(dishHandler.AddComment, user))
		dishes.PUT("/:dishId/comments", whitelist, g(unsupported("PUT", commentsPath), user))
		dishes.DELETE("/:dishId/comments", whitelist, g(dishHandler.ClearComments, user, admin))

		dishes.OPTIONS("/:dishId/comments/:commentId", whitelist, optionsOK)
		dishes.GET("/:dishId/comments/:commentId", anyOrigin, dishHandler.GetComment)
		dishes.POST("/:dishId/comments/:commentId", whitelist, g(unsupported("POST", commentPath), user))
		dishes.PUT("/:dishId/comments/:commentId", whitelist, g(dishHandler.UpdateComment, user))
		dishes.DELETE("/:dishId/comments/:commentId", whitelist, g(dishHandler.DeleteComment, user))
	}

	users := router.Group("/users")
	{
		users.OPTIONS("", whitelist, optionsOK)
		users.GET("", anyOrigin, g(userHandler.ListUsers, user, admin))
		users.OPTIONS("/me", whitelist, optionsOK)
		users.GET("/me", anyOrigin, g(userHandler.Me, user))
		users.OPTIONS("/signup", whitelist, optionsOK)
		users.POST("/signup", whitelist, userHandler.Signup)
		users.OPTIONS("/login", whitelist, optionsOK)
		users.POST("/login", whitelist, userHandler.Login)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := store.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// metricsHandler returns document counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		dishCount, _ := services.Dish.Count(ctx)
		userCount, _ := services.User.Count(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"dishes": dishCount,
				"users":  userCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
