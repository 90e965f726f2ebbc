package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/whoknow/internal/api/apierr"
	"github.com/mcoot/whoknow/internal/model"
)

// RateLimiter throttles authenticated requests per account
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[model.PlayerID]*accountLimiter
}

type accountLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per second with the given burst
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[model.PlayerID]*accountLimiter),
	}
}

// Middleware must run after Auth. Requests without an account pass through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccount(r.Context())
		if account != nil && !l.allow(account.ID) {
			apierr.WriteError(w, apierr.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(id model.PlayerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[id]
	if !ok {
		entry = &accountLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[id] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// Prune forgets accounts not seen since the cutoff and reports how many went
func (l *RateLimiter) Prune(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, id)
			removed++
		}
	}
	return removed
}
