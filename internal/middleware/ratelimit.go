// ratelimit.go implements per-client rate limiting with a token bucket.
//
// Every client IP gets its own golang.org/x/time/rate limiter refilling at
// perMinute tokens per minute with a burst of the same size. A request
// that finds the bucket empty is rejected with 429 Too Many Requests.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
)

// RateLimiter tracks request rates per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	perMinute int
	idleTTL   time.Duration
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per client.
// Call Cleanup periodically (or StartCleanup) to drop idle clients.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*client),
		perMinute: perMinute,
		idleTTL:   10 * time.Minute,
		now:       time.Now,
	}
}

// RateLimit returns Gin middleware enforcing the per-client limit.
// A limiter built with perMinute <= 0 lets everything through.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.perMinute <= 0 {
			c.Next()
			return
		}

		allowed, remaining := rl.allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:     "Rate limit exceeded. Try again later.",
				Code:      http.StatusTooManyRequests,
				Retryable: true,
			})
			return
		}
		c.Next()
	}
}

// allow consumes a token for key if one is available and reports how many
// whole tokens are left.
func (rl *RateLimiter) allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[key]
	if !ok {
		limit := rate.Every(time.Minute / time.Duration(rl.perMinute))
		cl = &client{limiter: rate.NewLimiter(limit, rl.perMinute)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	allowed := cl.limiter.AllowN(now, 1)
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Cleanup removes clients that have not been seen for the idle TTL.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// clientCount is used by tests.
func (rl *RateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
