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

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo creates a user repository over a collection
func NewMongoUserRepo(col *mongo.Collection) UserRepository {
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *mongoUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

func (r *mongoUserRepo) List(ctx context.Context) ([]*models.User, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoUserRepo) Count(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepo) find(ctx context.Context, filter bson.D) ([]*models.User, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := make([]*models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
