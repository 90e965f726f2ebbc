package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/api/request"
	"github.com/mcoot/whoknow/internal/api/response"
	"github.com/mcoot/whoknow/internal/services/auth"
)

// AccountService is what the player endpoints need from the auth service
type AccountService interface {
	CreateGuest(ctx context.Context, displayName string) (*auth.Session, error)
	Register(ctx context.Context, username, password, displayName string) (*auth.Session, error)
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	InvalidateSession(token string)
}

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService AccountService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService AccountService) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.CreateGuest(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	switch {
	case req.Username == "":
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	case req.Password == "":
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	case req.DisplayName == "":
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
