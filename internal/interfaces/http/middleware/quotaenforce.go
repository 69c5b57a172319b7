package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	quotaApp "quotaguard/internal/application/quota"
	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/shared/logger"
	"quotaguard/internal/shared/utils"
)

// QuotaEnforcementMiddleware gates requests on the caller's subscription
// quota. It consumes one unit of quota per admitted request.
type QuotaEnforcementMiddleware struct {
	service *quotaApp.Service
	logger  logger.Interface
}

// NewQuotaEnforcementMiddleware creates a new quota enforcement middleware
func NewQuotaEnforcementMiddleware(service *quotaApp.Service, logger logger.Interface) *QuotaEnforcementMiddleware {
	return &QuotaEnforcementMiddleware{
		service: service,
		logger:  logger,
	}
}

// Enforce checks and consumes quota for the authenticated user. The user ID
// must already be in the gin context (set by the auth layer). Upstream or
// storage failures surface as 500; this middleware never silently fails
// open or closed.
func (m *QuotaEnforcementMiddleware) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, exists := c.Get("user_id")
		if !exists {
			m.logger.Warnw("user ID not found in context")
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		userID, ok := userIDValue.(uint)
		if !ok {
			m.logger.Errorw("invalid user ID type in context")
			utils.ErrorResponse(c, http.StatusInternalServerError, "invalid user ID")
			c.Abort()
			return
		}

		result, err := m.service.CheckQuota(c.Request.Context(), dto.CheckQuotaRequest{UserID: userID})
		if err != nil {
			m.logger.Errorw("quota check failed",
				"error", err,
				"user_id", userID,
			)
			utils.ErrorResponse(c, http.StatusInternalServerError, "quota check failed")
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			m.logger.Warnw("quota exceeded",
				"user_id", userID,
			)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "quota exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders reports the hourly window in the conventional
// X-RateLimit headers. The full per-period breakdown is available from the
// quota status endpoint.
func setRateLimitHeaders(c *gin.Context, result *dto.CheckQuotaResponse) {
	if result.Remaining.Hourly.IsUnlimited() {
		c.Header("X-RateLimit-Remaining", "unlimited")
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining.Hourly.Value()))
	reset := time.Now().UTC().Truncate(time.Hour).Add(time.Hour)
	c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}
