package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/pmokit/aitrackd/internal/api"
	"codeberg.org/pmokit/aitrackd/internal/config"
	"codeberg.org/pmokit/aitrackd/internal/errors"
	"codeberg.org/pmokit/aitrackd/internal/logger"
	"codeberg.org/pmokit/aitrackd/internal/pid"
	"codeberg.org/pmokit/aitrackd/internal/telemetry"
	"codeberg.org/pmokit/aitrackd/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")

	if err := run(cfg); err != nil {
		logger.Error().Err(err).Msg("aitrackd exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	errFactory := errors.New()

	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	// One store per session; nothing survives a restart
	store := tracker.NewStore()
	if cfg.Seed {
		store.Seed()
		logger.Info().Int("tools", store.Count()).Msg("Sample tools loaded")
	}

	collector, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	}, logger.Default())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close telemetry collector")
		}
	}()

	server := api.NewServer(store, collector, logger.Default())
	if err := server.ListenAndServe(ctx, cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errFactory.Wrap(errors.ErrServeFailed, err)
	}

	logger.Info().Msg("Shutdown complete")

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
