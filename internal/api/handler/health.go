package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/whoknow/internal/api/response"
)

// Pinger is implemented by storage backends that can check their connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the server and its storage are usable
type HealthHandler struct {
	storageName string
	pinger      Pinger // nil for in-process storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storageName string, pinger Pinger) *HealthHandler {
	return &HealthHandler{storageName: storageName, pinger: pinger}
}

// Check handles GET /api/v1/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable", Storage: h.storageName})
			return
		}
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: h.storageName})
}
