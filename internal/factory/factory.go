package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/whoknow/internal/api"
	"github.com/mcoot/whoknow/internal/api/handler"
	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/dependencies/clock"
	"github.com/mcoot/whoknow/internal/dependencies/random"
	"github.com/mcoot/whoknow/internal/gateway"
	"github.com/mcoot/whoknow/internal/services/auth"
	"github.com/mcoot/whoknow/internal/services/dispatch"
	"github.com/mcoot/whoknow/internal/services/room"
	"github.com/mcoot/whoknow/internal/sse"
	"github.com/mcoot/whoknow/internal/storage"
	"github.com/mcoot/whoknow/internal/storage/memory"
	redisstorage "github.com/mcoot/whoknow/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Registry    *room.Registry
	Dispatcher  *dispatch.Dispatcher
	AuthService *auth.Service

	// Push transports
	HubManager *sse.HubManager
	Gateway    *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GatewayConfig holds websocket settings (optional)
	// If nil, defaults to gateway.DefaultConfig()
	GatewayConfig *gateway.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	gwCfg := gateway.DefaultConfig()
	if cfg.GatewayConfig != nil {
		gwCfg = *cfg.GatewayConfig
	}

	app := newWithDependencies(store, clock.New(), random.New(), authCfg, gwCfg, logger)
	app.StorageType = storageType
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, gwCfg gateway.Config, logger *slog.Logger) *App {
	registry := room.NewRegistry(store, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	gw := gateway.New(gwCfg, rnd, logger)
	dispatcher := dispatch.New(registry, dispatch.FanOut{gw, hubManager}, logger)

	return &App{
		Storage:     store,
		StorageType: StorageTypeMemory,
		Clock:       clk,
		Random:      rnd,
		Logger:      logger,
		Registry:    registry,
		Dispatcher:  dispatcher,
		AuthService: auth.New(store, clk, authCfg),
		HubManager:  hubManager,
		Gateway:     gw,
	}
}

// Router builds the HTTP handler serving the REST API, SSE streams and the websocket.
// limiter may be nil to disable per-account throttling.
func (a *App) Router(limiter *middleware.RateLimiter) http.Handler {
	var pinger handler.Pinger
	if p, ok := a.Storage.(handler.Pinger); ok {
		pinger = p
	}

	return api.NewRouter(api.RouterConfig{
		Logger:      a.Logger,
		AuthService: a.AuthService,
		Dispatcher:  a.Dispatcher,
		HubManager:  a.HubManager,
		RateLimiter: limiter,
		WebSocket:   a.Gateway.Handler(a.Dispatcher),
		StorageName: a.StorageType,
		Pinger:      pinger,
	})
}

// Close releases storage connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
