package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quotaguard/internal/shared/logger"
	"quotaguard/internal/shared/utils"
)

// UserIDHeader carries the authenticated user's ID, set by the edge gateway
// after it has verified the caller's credentials.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware resolves the calling user from the gateway-set identity
// header. This service sits behind the gateway and trusts the header; only
// its shape is validated here.
type IdentityMiddleware struct {
	logger logger.Interface
}

// NewIdentityMiddleware creates a new identity middleware
func NewIdentityMiddleware(logger logger.Interface) *IdentityMiddleware {
	return &IdentityMiddleware{logger: logger}
}

// RequireUser extracts the user ID from the identity header and stores it in
// the gin context for downstream middleware and handlers.
func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
			c.Abort()
			return
		}

		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			m.logger.Warnw("malformed user identity header", "value", raw)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid user identity")
			c.Abort()
			return
		}

		c.Set("user_id", uint(parsed))
		c.Next()
	}
}
