package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/validation"
	"github.com/rs/zerolog"
)

// dishService is the concrete implementation of DishService. Every mutation
// loads the whole dish, changes it in memory and saves it back.
type dishService struct {
	dishes    repository.DishRepository
	users     repository.UserRepository
	validator *validation.Validator
	log       zerolog.Logger
	sources
}

func newDishService(repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) *dishService {
	return &dishService{
		dishes:    repos.Dish,
		users:     repos.User,
		validator: validator,
		log:       log.With().Str("service", "dish").Logger(),
		sources:   defaultSources(),
	}
}

// List returns every dish with comment authors expanded
func (s *dishService) List(ctx context.Context) ([]*models.DishView, error) {
	dishes, err := s.dishes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return s.expandAuthors(ctx, dishes...)
}

// Get returns one dish with comment authors expanded
func (s *dishService) Get(ctx context.Context, dishID string) (*models.DishView, error) {
	resolved, err := s.resolveDish(ctx, dishID, true)
	if err != nil {
		return nil, err
	}
	return resolved.View, nil
}

// Create stores a new dish without comments
func (s *dishService) Create(ctx context.Context, req *models.DishRequest) (*models.Dish, error) {
	if errs := s.validator.ValidateDish(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	now := s.now()
	dish := &models.Dish{
		ID:          s.newID(),
		Name:        req.Name,
		Image:       req.Image,
		Category:    req.Category,
		Label:       req.Label,
		Price:       req.Price,
		Featured:    req.Featured,
		Description: req.Description,
		Comments:    models.Comments{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.dishes.Create(ctx, dish); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Dish %s already exists", dish.Name)
		}
		return nil, fmt.Errorf("create dish: %w", err)
	}

	s.log.Info().Str("dish_id", dish.ID).Str("name", dish.Name).Msg("Dish created")
	return dish, nil
}

// Update sets the provided fields of a dish
func (s *dishService) Update(ctx context.Context, dishID string, update *models.DishUpdate) (*models.Dish, error) {
	resolved, err := s.resolveDish(ctx, dishID, false)
	if err != nil {
		return nil, err
	}
	if errs := s.validator.ValidateDishUpdate(update); len(errs) > 0 {
		return nil, invalid(errs)
	}

	dish := resolved.Dish
	update.Apply(dish)
	if err := s.save(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// Delete removes a dish and returns what was removed
func (s *dishService) Delete(ctx context.Context, dishID string) (*models.Dish, error) {
	resolved, err := s.resolveDish(ctx, dishID, false)
	if err != nil {
		return nil, err
	}

	if err := s.dishes.Delete(ctx, dishID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, dishNotFound(dishID)
		}
		return nil, fmt.Errorf("delete dish: %w", err)
	}

	s.log.Info().Str("dish_id", dishID).Msg("Dish deleted")
	return resolved.Dish, nil
}

// DeleteAll removes every dish
func (s *dishService) DeleteAll(ctx context.Context) (*models.DeleteResult, error) {
	n, err := s.dishes.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete dishes: %w", err)
	}

	s.log.Warn().Int64("deleted", n).Msg("All dishes deleted")
	return &models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// ListComments returns a dish's comments with authors expanded
func (s *dishService) ListComments(ctx context.Context, dishID string) ([]models.CommentView, error) {
	resolved, err := s.resolveDish(ctx, dishID, true)
	if err != nil {
		return nil, err
	}
	return resolved.View.Comments, nil
}

// AddComment appends a comment authored by the principal
func (s *dishService) AddComment(ctx context.Context, principalID, dishID string, req *models.CommentRequest) (*models.DishView, error) {
	resolved, err := s.resolveDish(ctx, dishID, false)
	if err != nil {
		return nil, err
	}
	if errs := s.validator.ValidateComment(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	now := s.now()
	comment := models.Comment{
		ID:        s.newID(),
		Rating:    req.Rating,
		Comment:   req.Comment,
		Author:    principalID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dish := resolved.Dish
	dish.Comments = append(dish.Comments, comment)
	if err := s.save(ctx, dish); err != nil {
		return nil, err
	}

	s.log.Info().Str("dish_id", dishID).Str("comment_id", comment.ID).Str("author", principalID).Msg("Comment added")
	return s.refetch(ctx, dishID)
}

// ClearComments removes every comment of a dish
func (s *dishService) ClearComments(ctx context.Context, dishID string) (*models.Dish, error) {
	resolved, err := s.resolveDish(ctx, dishID, false)
	if err != nil {
		return nil, err
	}

	dish := resolved.Dish
	removed := len(dish.Comments)
	dish.Comments = models.Comments{}
	if err := s.save(ctx, dish); err != nil {
		return nil, err
	}

	s.log.Info().Str("dish_id", dishID).Int("removed", removed).Msg("Comments cleared")
	return dish, nil
}

// GetComment returns one comment with its author expanded
func (s *dishService) GetComment(ctx context.Context, dishID, commentID string) (*models.CommentView, error) {
	resolved, _, err := s.resolveDishAndComment(ctx, dishID, commentID, true)
	if err != nil {
		return nil, err
	}
	return resolved.View.Comment(commentID), nil
}

// UpdateComment changes the rating and/or text of the principal's own comment
func (s *dishService) UpdateComment(ctx context.Context, principalID, dishID, commentID string, update *models.CommentUpdate) (*models.DishView, error) {
	resolved, comment, err := s.resolveDishAndComment(ctx, dishID, commentID, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeCommentMutation(principalID, comment); err != nil {
		s.log.Warn().Str("dish_id", dishID).Str("comment_id", commentID).Str("principal", principalID).Msg("Comment update refused")
		return nil, err
	}
	if errs := s.validator.ValidateCommentUpdate(update); len(errs) > 0 {
		return nil, invalid(errs)
	}

	if update.Rating != nil {
		comment.Rating = *update.Rating
	}
	if update.Comment != nil {
		comment.Comment = *update.Comment
	}
	comment.UpdatedAt = s.now()

	if err := s.save(ctx, resolved.Dish); err != nil {
		return nil, err
	}
	return s.refetch(ctx, dishID)
}

// DeleteComment removes the principal's own comment
func (s *dishService) DeleteComment(ctx context.Context, principalID, dishID, commentID string) (*models.DishView, error) {
	resolved, comment, err := s.resolveDishAndComment(ctx, dishID, commentID, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeCommentMutation(principalID, comment); err != nil {
		s.log.Warn().Str("dish_id", dishID).Str("comment_id", commentID).Str("principal", principalID).Msg("Comment delete refused")
		return nil, err
	}

	resolved.Dish.Comments.Remove(commentID)
	if err := s.save(ctx, resolved.Dish); err != nil {
		return nil, err
	}

	s.log.Info().Str("dish_id", dishID).Str("comment_id", commentID).Msg("Comment deleted")
	return s.refetch(ctx, dishID)
}

// Count returns the number of stored dishes
func (s *dishService) Count(ctx context.Context) (int, error) {
	return s.dishes.Count(ctx)
}

// save persists the whole dish document
func (s *dishService) save(ctx context.Context, dish *models.Dish) error {
	dish.UpdatedAt = s.now()
	err := s.dishes.Save(ctx, dish)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return dishNotFound(dish.ID)
	case errors.Is(err, repository.ErrDuplicate):
		return conflict("Dish %s already exists", dish.Name)
	default:
		return fmt.Errorf("save dish: %w", err)
	}
}

// refetch reads the dish back with authors expanded for the response. It
// is a separate read, so a failure here is reported even though the
// preceding save committed.
func (s *dishService) refetch(ctx context.Context, dishID string) (*models.DishView, error) {
	resolved, err := s.resolveDish(ctx, dishID, true)
	if err != nil {
		return nil, err
	}
	return resolved.View, nil
}
