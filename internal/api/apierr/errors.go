package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/auth"
	"github.com/mcoot/whoknow/internal/services/room"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotRoomHost         = "NOT_ROOM_HOST"
	CodeNotGameHost         = "NOT_GAME_HOST"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeRateLimited         = "RATE_LIMITED"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// FromError returns the status and payload an error maps to. Push channels
// use the payload alone.
func FromError(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player is not in this room"}}
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNotRoomHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotRoomHost, "Only the room host can perform this action"}}
	case errors.Is(err, model.ErrNotGameHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotGameHost, "Only this round's host can perform this action"}}
	case errors.Is(err, model.ErrInvalidState):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Action not allowed in the current phase"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "At least 4 players are needed to start"}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, "Invalid room configuration"}}
	case errors.Is(err, model.ErrEmptyWord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Word must not be empty"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Name must not be empty"}}
	case errors.Is(err, room.ErrCodesExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "No room code available, try again"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrEmptyDisplayName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Display name must not be empty"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a rate limit error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests, slow down"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
