package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/api"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("Starting conFusion API server...")

	st, err := openStore(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	services := service.NewServices(st.repos, cfg, log)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(services, cfg, log, st.health)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
