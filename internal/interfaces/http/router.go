// Package http wires the gin engine, handlers and middleware into the
// public quota API.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	entApp "quotaguard/internal/application/entitlement"
	quotaApp "quotaguard/internal/application/quota"
	"quotaguard/internal/infrastructure/config"
	"quotaguard/internal/infrastructure/entitlement"
	"quotaguard/internal/infrastructure/ratelimit"
	"quotaguard/internal/infrastructure/repository"
	"quotaguard/internal/interfaces/http/handlers"
	"quotaguard/internal/interfaces/http/middleware"
	"quotaguard/internal/shared/db"
	"quotaguard/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine             *gin.Engine
	quotaHandler       *handlers.QuotaHandler
	entitlementHandler *handlers.EntitlementHandler
	burstLimiter       *middleware.BurstLimitMiddleware
	identity           *middleware.IdentityMiddleware
	quotaEnforcer      *middleware.QuotaEnforcementMiddleware
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(gormDB *gorm.DB, burst ratelimit.BurstLimiter, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	tiers, err := cfg.TierLimits()
	if err != nil {
		return nil, err
	}

	counterRepo := repository.NewUsageCounterRepository(gormDB, log)
	entitlementRepo := repository.NewUserEntitlementRepository(gormDB, log)
	source := entitlement.NewStoreSource(entitlementRepo, log)

	service := quotaApp.NewService(source, counterRepo, tiers, cfg.Quota.HistoryDefaultLimit, log)
	quotaHandler := handlers.NewQuotaHandler(service, log)

	txManager := db.NewTransactionManager(gormDB)
	entitlementService := entApp.NewService(entitlementRepo, txManager, log)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementService, log)

	burstLimiter := middleware.NewBurstLimitMiddleware(burst, cfg.Burst.RequestsPerMinute, log)
	identity := middleware.NewIdentityMiddleware(log)
	quotaEnforcer := middleware.NewQuotaEnforcementMiddleware(service, log)

	return &Router{
		engine:             engine,
		quotaHandler:       quotaHandler,
		entitlementHandler: entitlementHandler,
		burstLimiter:       burstLimiter,
		identity:           identity,
		quotaEnforcer:      quotaEnforcer,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(logger.NewLogger()))
	r.engine.Use(middleware.Recovery())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.burstLimiter.Limit())
	{
		v1.POST("/quota/check", r.quotaHandler.CheckQuota)

		users := v1.Group("/users")
		{
			users.GET("/:user_id/quota", r.quotaHandler.GetQuotaStatus)
			users.GET("/:user_id/quota/history", r.quotaHandler.GetUsageHistory)
			users.POST("/:user_id/entitlements", r.entitlementHandler.Grant)
			users.DELETE("/:user_id/entitlements/:entitlement_id", r.entitlementHandler.Revoke)
		}

		// Gateway-facing surface: the edge proxy forwards the caller's
		// identity in a header and each admitted request consumes quota.
		me := v1.Group("/me", r.identity.RequireUser())
		{
			me.GET("/quota", r.quotaHandler.GetOwnQuotaStatus)
			me.POST("/quota/consume", r.quotaEnforcer.Enforce(), r.quotaHandler.ConsumeQuota)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
