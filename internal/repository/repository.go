package repository

import (
	"context"
	"errors"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/database"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
)

var (
	// ErrNotFound is returned by writes whose target document no longer exists
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate key")
)

// DishRepository defines the interface for dish document operations.
// Reads return nil, nil when the dish does not exist.
type DishRepository interface {
	List(ctx context.Context) ([]*models.Dish, error)
	GetByID(ctx context.Context, id string) (*models.Dish, error)
	Create(ctx context.Context, dish *models.Dish) error
	// Save replaces the whole stored document, embedded comments included
	Save(ctx context.Context, dish *models.Dish) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByIDs returns the users that exist among ids, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Dish DishRepository
	User UserRepository
}

// NewPostgres creates all repositories over a PostgreSQL connection
func NewPostgres(db *database.DB) *Repositories {
	return &Repositories{
		Dish: NewDishRepo(db),
		User: NewUserRepo(db),
	}
}

// NewMongo creates all repositories over a MongoDB database
func NewMongo(m *database.Mongo) *Repositories {
	return &Repositories{
		Dish: NewMongoDishRepo(m.Collection(database.DishesCollection)),
		User: NewMongoUserRepo(m.Collection(database.UsersCollection)),
	}
}

// normalize makes a decoded dish safe to serialise
func normalize(dish *models.Dish) *models.Dish {
	if dish != nil && dish.Comments == nil {
		dish.Comments = models.Comments{}
	}
	return dish
}
