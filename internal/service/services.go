package service

import (
	"context"
	"time"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/auth"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DishService defines the dish and comment operations
type DishService interface {
	List(ctx context.Context) ([]*models.DishView, error)
	Get(ctx context.Context, dishID string) (*models.DishView, error)
	Create(ctx context.Context, req *models.DishRequest) (*models.Dish, error)
	Update(ctx context.Context, dishID string, update *models.DishUpdate) (*models.Dish, error)
	Delete(ctx context.Context, dishID string) (*models.Dish, error)
	DeleteAll(ctx context.Context) (*models.DeleteResult, error)

	ListComments(ctx context.Context, dishID string) ([]models.CommentView, error)
	AddComment(ctx context.Context, principalID, dishID string, req *models.CommentRequest) (*models.DishView, error)
	ClearComments(ctx context.Context, dishID string) (*models.Dish, error)
	GetComment(ctx context.Context, dishID, commentID string) (*models.CommentView, error)
	UpdateComment(ctx context.Context, principalID, dishID, commentID string, update *models.CommentUpdate) (*models.DishView, error)
	DeleteComment(ctx context.Context, principalID, dishID, commentID string) (*models.DishView, error)

	Count(ctx context.Context) (int, error)
}

// UserService defines account and authentication operations
type UserService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error)
	CreateAdmin(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Dish DishService
	User UserService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	validator := validation.NewValidator()
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Services{
		Dish: newDishService(repos, validator, log),
		User: newUserService(repos.User, issuer, validator, cfg.Auth.BcryptCost, log),
	}
}

// clock and id sources, replaced in tests
type sources struct {
	now   func() time.Time
	newID func() string
}

func defaultSources() sources {
	return sources{
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: func() string { return uuid.New().String() },
	}
}
