package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/whoknow/internal/api"
	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/factory"
)

func main() {
	// A .env file fills in anything the real environment leaves unset
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	env, err := loadEnv(os.LookupEnv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.LogLevel,
	}))
	slog.SetDefault(logger)

	env.Factory.Logger = logger
	app, err := factory.New(env.Factory)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	limiter := middleware.NewRateLimiter(env.APIRateLimit, env.APIRateBurst)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = env.Port
	server := api.NewServer(app.Router(limiter), serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return app.AuthService.RunJanitor(ctx, env.JanitorInterval)
	})
	g.Go(func() error {
		ticker := time.NewTicker(env.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				hubs := app.HubManager.CleanupEmptyHubs()
				limiters := limiter.Prune(time.Now().Add(-env.JanitorInterval))
				logger.Debug("maintenance pass",
					slog.Int("hubs_removed", hubs),
					slog.Int("limiters_pruned", limiters),
					slog.Int("websocket_connections", app.Gateway.ConnectionCount()))
			}
		}
	})

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", app.StorageType))

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
