package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoDishRepo stores each dish as one document with its comments embedded
type mongoDishRepo struct {
	col *mongo.Collection
}

// NewMongoDishRepo creates a dish repository over a collection
func NewMongoDishRepo(col *mongo.Collection) DishRepository {
	return &mongoDishRepo{col: col}
}

// List returns all dishes in creation order
func (r *mongoDishRepo) List(ctx context.Context) ([]*models.Dish, error) {
	cursor, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find dishes: %w", err)
	}

	dishes := make([]*models.Dish, 0)
	if err := cursor.All(ctx, &dishes); err != nil {
		return nil, fmt.Errorf("decode dishes: %w", err)
	}
	for _, d := range dishes {
		normalize(d)
	}
	return dishes, nil
}

// GetByID retrieves a dish by ID
func (r *mongoDishRepo) GetByID(ctx context.Context, id string) (*models.Dish, error) {
	var dish models.Dish
	err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&dish)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dish %s: %w", id, err)
	}
	return normalize(&dish), nil
}

// Create inserts a new dish
func (r *mongoDishRepo) Create(ctx context.Context, dish *models.Dish) error {
	if _, err := r.col.InsertOne(ctx, normalize(dish)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

// Save replaces the stored document
func (r *mongoDishRepo) Save(ctx context.Context, dish *models.Dish) error {
	res, err := r.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: dish.ID}}, normalize(dish))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("replace dish %s: %w", dish.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a dish and its comments
func (r *mongoDishRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete dish %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every dish
func (r *mongoDishRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete dishes: %w", err)
	}
	return res.DeletedCount, nil
}

// Count returns the total number of dishes
func (r *mongoDishRepo) Count(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count dishes: %w", err)
	}
	return int(n), nil
}
