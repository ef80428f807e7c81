package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/taskdesk/taskdesk/internal/api/response"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// maxTrackedClients bounds the number of per-address limiters kept; the least
// recently seen address is dropped first.
const maxTrackedClients = 10000

// RateLimiter hands out one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per client address with bursts
// of up to burst requests. A perMinute of zero or less never limits.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimiter{
		limiters: cache,
		rate:     limit,
		burst:    burst,
	}
}

// Allow reports whether a request from addr may proceed now.
func (rl *RateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(addr)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(addr, limiter)
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientAddr(r)) {
			w.Header().Set("Retry-After", "60")
			response.Error(w, domain.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit returns middleware limiting each client address to perMinute
// requests. A non-positive perMinute disables limiting.
func RateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return NewRateLimiter(perMinute, burst).Handler
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
