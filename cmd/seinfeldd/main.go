// Package main is the entry point for the seinfeldd quote service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	seinfeld "github.com/noswap/seinfeld"
	"github.com/noswap/seinfeld/internal/adapters/http"
	"github.com/noswap/seinfeld/internal/adapters/http/handlers"
	"github.com/noswap/seinfeld/internal/app"
	"github.com/noswap/seinfeld/internal/platform/config"
	"github.com/noswap/seinfeld/internal/platform/logging"
	"github.com/noswap/seinfeld/internal/platform/telemetry"
	"github.com/noswap/seinfeld/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the quote database
	store, err := seinfeld.New(cfg.Database.Path, subjectMatchOption(cfg.Database.SubjectMatch))
	if err != nil {
		return fmt.Errorf("creating quote store: %w", err)
	}

	if err := store.Open(ctx); err != nil {
		return fmt.Errorf("opening quote database %q: %w", cfg.Database.Path, err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("quote database close error", slog.Any("error", closeErr))
		}
	}()

	logger.Info("quote database opened", slog.String("path", cfg.Database.Path))

	// 6. Create health registry with the database check
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(ports.NewStoreChecker(store)); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	// 7. Create quote service (application layer)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:  store,
		Logger: logger,
	})

	// 8. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	seasonHandler := handlers.NewSeasonHandler(quoteService)
	episodeHandler := handlers.NewEpisodeHandler(quoteService)
	quoteHandler := handlers.NewQuoteHandler(handlers.QuoteHandlerConfig{
		Service:       quoteService,
		PassageLength: cfg.Database.PassageLength,
	})

	// 9. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 10. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		HealthHandler:  healthHandler,
		SeasonHandler:  seasonHandler,
		EpisodeHandler: episodeHandler,
		QuoteHandler:   quoteHandler,
		Timeout:        http.DefaultRequestTimeout,
	})

	// 11. Start server (non-blocking)
	serverErr := server.Start()

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// subjectMatchOption maps the configured matching mode onto a store option.
func subjectMatchOption(mode string) seinfeld.Option {
	if mode == "substring" {
		return seinfeld.WithSubjectMatch(seinfeld.MatchSubstring)
	}

	return seinfeld.WithSubjectMatch(seinfeld.MatchExact)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
