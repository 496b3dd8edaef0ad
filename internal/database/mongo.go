package database

import (
	"context"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names
const (
	DishesCollection = "dishes"
	UsersCollection  = "users"
)

// Mongo wraps a connected client and the application database
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    zerolog.Logger
}

// NewMongo connects to MongoDB and verifies the primary is reachable
func NewMongo(ctx context.Context, cfg *config.MongoConfig, log zerolog.Logger) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(cfg.Database),
		log:    log.With().Str("component", "mongo").Logger(),
	}

	m.log.Info().Str("database", cfg.Database).Msg("MongoDB connection established")

	return m, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		DishesCollection: {
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("dish_name_unique"),
		},
		UsersCollection: {
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_username_unique"),
		},
	}

	for collection, model := range indexes {
		name, err := m.DB.Collection(collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", collection, err)
		}
		m.log.Debug().Str("collection", collection).Str("index", name).Msg("Index ensured")
	}
	return nil
}

// Collection returns a handle to the named collection
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

// HealthCheck pings the primary
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
