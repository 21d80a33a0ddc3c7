// Server binary for the walk-forward validation service.
//
// Startup order:
//  1. Load configuration from environment (.env supported)
//  2. Initialize structured logging
//  3. Open the results database and apply its schema
//  4. Build the validation runner and results repository
//  5. Serve the HTTP API until SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfold/walkforward/internal/config"
	"github.com/quantfold/walkforward/internal/database"
	"github.com/quantfold/walkforward/internal/metrics"
	"github.com/quantfold/walkforward/internal/results"
	"github.com/quantfold/walkforward/internal/server"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting walkforward service")

	db, err := database.New(database.Config{
		Path:    cfg.ResultsDBPath(),
		Profile: database.ProfileStandard,
		Name:    "results",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open results database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate results database")
	}

	repo := results.NewRepository(db.Conn(), log)
	runner := walkforward.NewRunner(metrics.Compute, log)

	srv := server.New(server.Config{
		Log:    log,
		Config: cfg,
		Runner: runner,
		Repo:   repo,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
