package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/auth"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound},
		{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{model.ErrNotRoomHost, http.StatusForbidden, CodeNotRoomHost},
		{model.ErrNotGameHost, http.StatusForbidden, CodeNotGameHost},
		{model.ErrInvalidState, http.StatusConflict, CodeInvalidState},
		{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers},
		{model.ErrInvalidConfig, http.StatusBadRequest, CodeInvalidConfig},
		{model.ErrEmptyWord, http.StatusBadRequest, CodeInvalidRequest},
		{model.ErrEmptyName, http.StatusBadRequest, CodeInvalidRequest},
		{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{fmt.Errorf("save room: %w", model.ErrInvalidState), http.StatusConflict, CodeInvalidState},
		{NewRateLimitedError(), http.StatusTooManyRequests, CodeRateLimited},
		{fmt.Errorf("redis exploded"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, apiErr := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.ErrRoomNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, CodeRoomNotFound, body.Error.Code)
}

func TestInternalErrorsDoNotLeakDetails(t *testing.T) {
	_, apiErr := FromError(fmt.Errorf("dial tcp 10.0.0.1:6379: connection refused"))
	assert.Equal(t, "Internal server error", apiErr.Message)
}
