package service

import (
	"context"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
)

// expandAuthors builds views of dishes with every comment author replaced by
// the user it references. All authors are fetched in one lookup. Authors
// that no longer exist keep only their id.
func (s *dishService) expandAuthors(ctx context.Context, dishes ...*models.Dish) ([]*models.DishView, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, dish := range dishes {
		for _, id := range dish.Comments.AuthorIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	authors := make(map[string]*models.UserView, len(ids))
	if len(ids) > 0 {
		users, err := s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("expand comment authors: %w", err)
		}
		for _, u := range users {
			authors[u.ID] = u.View()
		}
	}

	views := make([]*models.DishView, 0, len(dishes))
	for _, dish := range dishes {
		views = append(views, dishView(dish, authors))
	}
	return views, nil
}

func dishView(dish *models.Dish, authors map[string]*models.UserView) *models.DishView {
	view := &models.DishView{
		ID:          dish.ID,
		Name:        dish.Name,
		Image:       dish.Image,
		Category:    dish.Category,
		Label:       dish.Label,
		Price:       dish.Price,
		Featured:    dish.Featured,
		Description: dish.Description,
		Comments:    make([]models.CommentView, 0, len(dish.Comments)),
		CreatedAt:   dish.CreatedAt,
		UpdatedAt:   dish.UpdatedAt,
	}

	for _, c := range dish.Comments {
		author, ok := authors[c.Author]
		if !ok {
			author = &models.UserView{ID: c.Author}
		}
		view.Comments = append(view.Comments, models.CommentView{
			ID:        c.ID,
			Rating:    c.Rating,
			Comment:   c.Comment,
			Author:    author,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return view
}
