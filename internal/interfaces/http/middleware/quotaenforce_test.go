package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	quotaApp "quotaguard/internal/application/quota"
	"quotaguard/internal/domain/quota"
	"quotaguard/internal/infrastructure/entitlement"
	"quotaguard/internal/infrastructure/persistence/models"
	"quotaguard/internal/infrastructure/repository"
	"quotaguard/internal/shared/logger"
)

func setupService(t *testing.T, hourlyLimit int) *quotaApp.Service {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.UsageCounterModel{}, &models.UserEntitlementModel{}))

	counterRepo := repository.NewUsageCounterRepository(gdb, logger.Nop())
	entRepo := repository.NewUserEntitlementRepository(gdb, logger.Nop())
	source := entitlement.NewStoreSource(entRepo, logger.Nop())

	tiers := quota.TierLimits{
		quota.FallbackTier: {
			Hourly:  quota.MustFinite(hourlyLimit),
			Daily:   quota.MustFinite(1000),
			Monthly: quota.MustFinite(10000),
		},
	}

	return quotaApp.NewService(source, counterRepo, tiers, 30, logger.Nop())
}

func enforcedEngine(service *quotaApp.Service, userID any) *gin.Engine {
	enforcer := NewQuotaEnforcementMiddleware(service, logger.Nop())

	engine := gin.New()
	engine.GET("/protected",
		func(c *gin.Context) {
			if userID != nil {
				c.Set("user_id", userID)
			}
		},
		enforcer.Enforce(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return engine
}

func doGet(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestEnforce_AllowsUnderLimit(t *testing.T) {
	engine := enforcedEngine(setupService(t, 3), uint(1))

	for i := 0; i < 3; i++ {
		rec := doGet(engine, "/protected")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestEnforce_DeniesOverLimit(t *testing.T) {
	engine := enforcedEngine(setupService(t, 2), uint(1))

	for i := 0; i < 2; i++ {
		rec := doGet(engine, "/protected")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doGet(engine, "/protected")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestEnforce_MissingUserIsUnauthorized(t *testing.T) {
	engine := enforcedEngine(setupService(t, 5), nil)

	rec := doGet(engine, "/protected")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnforce_WrongUserIDTypeIsServerError(t *testing.T) {
	engine := enforcedEngine(setupService(t, 5), "not-a-uint")

	rec := doGet(engine, "/protected")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
