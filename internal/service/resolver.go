package service

import (
	"context"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
)

// resolvedDish is a loaded dish and, when expansion was requested, its view
type resolvedDish struct {
	Dish *models.Dish
	View *models.DishView
}

// resolveDish loads a dish, expanding comment authors when expand is set
func (s *dishService) resolveDish(ctx context.Context, dishID string, expand bool) (*resolvedDish, error) {
	dish, err := s.dishes.GetByID(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	if dish == nil {
		return nil, dishNotFound(dishID)
	}

	resolved := &resolvedDish{Dish: dish}
	if expand {
		views, err := s.expandAuthors(ctx, dish)
		if err != nil {
			return nil, err
		}
		resolved.View = views[0]
	}
	return resolved, nil
}

// resolveDishAndComment loads a dish and locates one of its comments. The
// returned comment points into resolved.Dish.Comments.
func (s *dishService) resolveDishAndComment(ctx context.Context, dishID, commentID string, expand bool) (*resolvedDish, *models.Comment, error) {
	resolved, err := s.resolveDish(ctx, dishID, expand)
	if err != nil {
		return nil, nil, err
	}

	comment := resolved.Dish.Comments.Find(commentID)
	if comment == nil {
		return nil, nil, commentNotFound(commentID)
	}
	return resolved, comment, nil
}

// authorizeCommentMutation permits only the comment's author
func authorizeCommentMutation(principalID string, comment *models.Comment) error {
	if principalID == "" || principalID != comment.Author {
		return forbidden()
	}
	return nil
}
