package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"quotaguard/internal/shared/logger"
)

func identityEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewIdentityMiddleware(logger.Nop())

	engine := gin.New()
	engine.GET("/whoami", mw.RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	return engine
}

func doIdentity(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(UserIDHeader, header)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestIdentity_SetsUserIDFromHeader(t *testing.T) {
	engine := identityEngine()

	rec := doIdentity(engine, "42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestIdentity_MissingHeader(t *testing.T) {
	engine := identityEngine()

	rec := doIdentity(engine, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_RejectsMalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "non-numeric", header: "alice"},
		{name: "zero", header: "0"},
		{name: "negative", header: "-3"},
		{name: "overflow", header: "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := identityEngine()

			rec := doIdentity(engine, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
