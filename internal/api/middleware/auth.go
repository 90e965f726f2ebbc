package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/whoknow/internal/api/apierr"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/auth"
)

type contextKey string

const (
	accountContextKey contextKey = "account"
	sessionContextKey contextKey = "session"
)

// SessionValidator resolves bearer tokens to sessions
type SessionValidator interface {
	ValidateSession(token string) (*auth.Session, error)
}

// Auth creates authentication middleware
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := sessions.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

func withSession(ctx context.Context, session *auth.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, accountContextKey, &session.Account)
}

// extractToken extracts the session token from the request.
// EventSource clients cannot set headers, so a token query parameter is also accepted.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

// GetAccount returns the authenticated account from the request context
func GetAccount(ctx context.Context) *model.Account {
	account, _ := ctx.Value(accountContextKey).(*model.Account)
	return account
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetAccount returns the authenticated account or panics
func MustGetAccount(ctx context.Context) *model.Account {
	account := GetAccount(ctx)
	if account == nil {
		panic("no account in context - auth middleware not applied?")
	}
	return account
}
