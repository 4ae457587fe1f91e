package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
)

// RateLimiter bounds write endpoints per client IP using a fixed-window
// counter. A counter-store fault lets the request through: rate limiting is
// protective, not an authorization decision.
type RateLimiter struct {
	store  port.RateLimitStore
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewRateLimiter builds a reusable rate limiter middleware helper.
func NewRateLimiter(store port.RateLimitStore, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{store: store, limit: limit, window: window, logger: logger}
}

// Limit returns a Gin middleware enforcing the configured bound for the
// named endpoint group.
func (rl *RateLimiter) Limit(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.store == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		count, err := rl.store.Increment(c.Request.Context(), name+":"+ip, rl.window)
		if err != nil {
			rl.logger.Warn("rate limit store unavailable, allowing request",
				zap.String("rule", name),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				newErrorResponse(c, "rate_limited"))
			return
		}

		c.Next()
	}
}
