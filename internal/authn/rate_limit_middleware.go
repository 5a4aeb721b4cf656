package authn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds per-client rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[int64]*rateLimiterEntry
	rps      float64
	burst    int
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-client rate limiting on automation API
// requests, keyed by the authenticated client's id.
//
// MUST run after Middleware (requires an authenticated client in context).
// Uses a token bucket via golang.org/x/time/rate, one bucket per client.
//
// Returns 429 with a Retry-After header when the bucket is empty.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst}
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Error("rate limit middleware: no authenticated client in context")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		limiter := store.getLimiter(client.ID)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.Int64("client_id", client.ID),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *rateLimiterStore) getLimiter(clientID int64) *rate.Limiter {
	if val, ok := s.limiters.Load(clientID); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(s.rps), s.burst)
	entry := &rateLimiterEntry{limiter: limiter, lastAccess: time.Now()}
	s.limiters.Store(clientID, entry)
	return limiter
}

// cleanupStale evicts limiters idle for over an hour, bounding memory growth
// as clients come and go.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			s.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimiterEntry)
				entry.mu.Lock()
				shouldDelete := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()
				if shouldDelete {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
