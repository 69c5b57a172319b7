package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"quotaguard/internal/shared/logger"
)

type stubLimiter struct {
	budget map[string]int
	err    error
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{budget: make(map[string]int)}
}

func (s *stubLimiter) Allow(_ context.Context, key string, perMinute int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.budget[key] >= perMinute {
		return false, nil
	}
	s.budget[key]++
	return true, nil
}

func (s *stubLimiter) Remaining(_ context.Context, key string, perMinute int) (int64, error) {
	return int64(perMinute - s.budget[key]), s.err
}

func (s *stubLimiter) Reset(_ context.Context, key string) error {
	delete(s.budget, key)
	return s.err
}

func burstEngine(limiter *stubLimiter, perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewBurstLimitMiddleware(limiter, perMinute, logger.Nop())

	engine := gin.New()
	engine.GET("/ping", mw.Limit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBurstLimit_DeniesOverRate(t *testing.T) {
	engine := burstEngine(newStubLimiter(), 2)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestBurstLimit_ZeroRateDisables(t *testing.T) {
	limiter := newStubLimiter()
	engine := burstEngine(limiter, 0)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, limiter.budget, "disabled limiter is never consulted")
}

func TestBurstLimit_LimiterFailureFailsOpen(t *testing.T) {
	limiter := newStubLimiter()
	limiter.err = errors.New("redis down")
	engine := burstEngine(limiter, 1)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBurstLimit_KeysSeparateUsers(t *testing.T) {
	limiter := newStubLimiter()
	gin.SetMode(gin.TestMode)
	mw := NewBurstLimitMiddleware(limiter, 1, logger.Nop())

	engine := gin.New()
	engine.GET("/ping",
		func(c *gin.Context) {
			c.Set("user_id", uint(c.GetHeader("X-Test-User")[0]))
		},
		mw.Limit(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	for _, user := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Test-User", user)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "each user has an independent budget")
	}
}
