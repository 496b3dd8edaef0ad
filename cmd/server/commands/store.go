package commands

import (
	"context"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/api"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/database"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
	"github.com/rs/zerolog"
)

// store is an opened backend with its repositories
type store struct {
	repos  *repository.Repositories
	health api.Pinger
	close  func(ctx context.Context) error
}

// openStore connects to the configured backend and prepares its schema:
// indexes for MongoDB, migrations for Postgres.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m, err := database.NewMongo(ctx, &cfg.Mongo, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			m.Close(ctx)
			return nil, err
		}
		return &store{repos: repository.NewMongo(m), health: m, close: m.Close}, nil

	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		closeDB := func(context.Context) error { return db.Close() }
		return &store{repos: repository.NewPostgres(db), health: db, close: closeDB}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
