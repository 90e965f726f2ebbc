package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/whoknow/internal/api/handler"
	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/services/auth"
	"github.com/mcoot/whoknow/internal/services/dispatch"
	"github.com/mcoot/whoknow/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Dispatcher  dispatch.DispatcherInterface
	HubManager  *sse.HubManager
	RateLimiter *middleware.RateLimiter // optional

	// Websocket endpoint, mounted at /ws when set
	WebSocket http.Handler

	StorageName string
	Pinger      handler.Pinger // optional
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.Dispatcher)
	eventsHandler := handler.NewEventsHandler(cfg.Dispatcher, cfg.HubManager, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.StorageName, cfg.Pinger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	if cfg.WebSocket != nil {
		r.Handle("/ws", cfg.WebSocket).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	if cfg.RateLimiter != nil {
		rooms.Use(cfg.RateLimiter.Middleware)
	}
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/word", roomHandler.SetWord).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/end-questioning", roomHandler.EndQuestioning).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/votes", roomHandler.Vote).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reset", roomHandler.Reset).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/config", roomHandler.UpdateConfig).Methods(http.MethodPatch)
	rooms.HandleFunc("/{code}/me", roomHandler.Me).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	return r
}
