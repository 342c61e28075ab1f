package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the client TTL are evicted by the cache janitor.
type RateLimiter struct {
	mu      sync.Mutex
	clients *gocache.Cache
	limit   rate.Limit
	burst   int
	ttl     time.Duration
}

func NewRateLimiter(limit rate.Limit, burst int, cleanupPeriod, clientTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: gocache.New(clientTTL, cleanupPeriod),
		limit:   limit,
		burst:   burst,
		ttl:     clientTTL,
	}
}

// Middleware throttles API traffic. Health checks are never limited.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthCheck(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !rl.limiter(ip).Allow() {
				logger.WithContext(r.Context()).Warn().
					Str("ip", ip).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "1")
				utils.WriteError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiter returns the client's bucket and slides its expiry forward.
func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.clients.Get(ip)
	limiter, _ := l.(*rate.Limiter)
	if !ok || limiter == nil {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	rl.clients.Set(ip, limiter, rl.ttl)
	return limiter
}

// Clients reports how many client buckets are tracked.
func (rl *RateLimiter) Clients() int {
	return rl.clients.ItemCount()
}

func isHealthCheck(path string) bool {
	return path == "/health" || strings.HasSuffix(path, "/v1/health")
}
