package commands

import (
	"fmt"
	"strconv"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd groups the Postgres schema commands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
	Long: `Apply or roll back the SQL migrations of the Postgres backend.

MongoDB needs no migrations; its indexes are created when the server starts.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, path string) error {
			return db.RunMigrations(path)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, path string) error {
			return db.MigrateDown(path)
		})
	},
}

var migrateToCmd = &cobra.Command{
	Use:   "to <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withDB(func(db *database.DB, path string) error {
			return db.MigrateToVersion(path, uint(version))
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, path string) error {
			version, dirty, err := db.MigrationVersion(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateToCmd, migrateVersionCmd)
}

// withDB opens the Postgres database for a migration command
func withDB(fn func(db *database.DB, migrationsPath string) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the %q driver only (STORE_DRIVER=%q)", config.DriverPostgres, cfg.Store.Driver)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(db, cfg.Database.MigrationsPath)
}
