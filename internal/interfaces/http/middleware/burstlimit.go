package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotaguard/internal/infrastructure/ratelimit"
	"quotaguard/internal/shared/logger"
	"quotaguard/internal/shared/utils"
)

// BurstLimitMiddleware throttles short request bursts per client before the
// quota layer is consulted. It is a transport-level guard, separate from the
// subscription quota windows.
type BurstLimitMiddleware struct {
	limiter   ratelimit.BurstLimiter
	perMinute int
	logger    logger.Interface
}

// NewBurstLimitMiddleware creates a new burst limit middleware
func NewBurstLimitMiddleware(limiter ratelimit.BurstLimiter, perMinute int, logger logger.Interface) *BurstLimitMiddleware {
	return &BurstLimitMiddleware{
		limiter:   limiter,
		perMinute: perMinute,
		logger:    logger,
	}
}

// Limit rejects requests above the per-minute burst rate. The client key is
// the authenticated user when present, otherwise the client IP. Limiter
// failures fail open: a degraded redis must not take the API down.
func (m *BurstLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.perMinute <= 0 {
			c.Next()
			return
		}

		key := m.clientKey(c)
		allowed, err := m.limiter.Allow(c.Request.Context(), key, m.perMinute)
		if err != nil {
			m.logger.Warnw("burst limiter unavailable, allowing request",
				"error", err,
				"key", key,
			)
			c.Next()
			return
		}

		if !allowed {
			// The window slides over one minute, so a retry within that
			// bound is guaranteed to find a free slot.
			c.Header("Retry-After", "60")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *BurstLimitMiddleware) clientKey(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			return fmt.Sprintf("user:%d", id)
		}
	}
	return "ip:" + c.ClientIP()
}
