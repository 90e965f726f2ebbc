package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/auth"
	"github.com/mcoot/whoknow/internal/testutil"
)

type stubSessions map[string]*auth.Session

func (s stubSessions) ValidateSession(token string) (*auth.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, auth.ErrInvalidSession
}

func newStub() stubSessions {
	return stubSessions{
		"good": {Token: "good", PlayerID: "p1", Account: model.Account{ID: "p1", DisplayName: "Alice"}},
	}
}

func echoAccount(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(MustGetAccount(r.Context()).DisplayName))
}

func TestAuth(t *testing.T) {
	h := Auth(newStub())(http.HandlerFunc(echoAccount))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"missing token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session", Value: "good"}) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "Alice", rr.Body.String())
			}
		})
	}
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	h := Auth(newStub())(http.HandlerFunc(echoAccount))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?token=good", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	h := Auth(newStub())(limiter.Middleware(http.HandlerFunc(echoAccount)))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	require.Equal(t, 0, limiter.Prune(time.Now().Add(-time.Minute)))
	assert.Equal(t, 1, limiter.Prune(time.Now().Add(time.Minute)))
}

func TestRecoveryWritesJSONError(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
}

func testLogger() *slog.Logger {
	return testutil.NopLogger()
}
