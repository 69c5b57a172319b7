package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	entApp "quotaguard/internal/application/entitlement"
	entDomain "quotaguard/internal/domain/entitlement"
	"quotaguard/internal/infrastructure/persistence/models"
	"quotaguard/internal/infrastructure/repository"
	"quotaguard/internal/shared/db"
	"quotaguard/internal/shared/logger"
)

func setupEntitlementHandler(t *testing.T) (*EntitlementHandler, entDomain.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.UserEntitlementModel{}))

	entRepo := repository.NewUserEntitlementRepository(gdb, logger.Nop())
	service := entApp.NewService(entRepo, db.NewTransactionManager(gdb), logger.Nop())
	return NewEntitlementHandler(service, logger.Nop()), entRepo
}

func entitlementRouter(h *EntitlementHandler) *gin.Engine {
	engine := gin.New()
	engine.POST("/users/:user_id/entitlements", h.Grant)
	engine.DELETE("/users/:user_id/entitlements/:entitlement_id", h.Revoke)
	return engine
}

func TestGrantEntitlement(t *testing.T) {
	h, entRepo := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	rec := doJSON(t, engine, http.MethodPost, "/users/5/entitlements", gin.H{"tag": "starter"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID     uint   `json:"id"`
			UserID uint   `json:"user_id"`
			Tag    string `json:"tag"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Data.ID)
	assert.Equal(t, uint(5), resp.Data.UserID)
	assert.Equal(t, "starter", resp.Data.Tag)
	assert.Equal(t, "active", resp.Data.Status)

	active, err := entRepo.GetActiveByUserID(context.Background(), 5, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "starter", active[0].Tag())
}

func TestGrantEntitlement_MissingTag(t *testing.T) {
	h, _ := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	rec := doJSON(t, engine, http.MethodPost, "/users/5/entitlements", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrantEntitlement_ExpiryBeforeGrantRejected(t *testing.T) {
	h, _ := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	grantedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := doJSON(t, engine, http.MethodPost, "/users/5/entitlements", gin.H{
		"tag":        "starter",
		"granted_at": grantedAt,
		"expires_at": grantedAt.Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrantEntitlement_InvalidUserID(t *testing.T) {
	h, _ := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	rec := doJSON(t, engine, http.MethodPost, "/users/abc/entitlements", gin.H{"tag": "starter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/users/0/entitlements", gin.H{"tag": "starter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevokeEntitlement(t *testing.T) {
	h, entRepo := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	ent, err := entDomain.NewUserEntitlement(5, "starter", time.Now().UTC().Add(-time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, entRepo.Create(context.Background(), ent))

	rec := doJSON(t, engine, http.MethodDelete, "/users/5/entitlements/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "revoked", resp.Data.Status)

	active, err := entRepo.GetActiveByUserID(context.Background(), 5, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRevokeEntitlement_UnknownGrant(t *testing.T) {
	h, _ := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	rec := doJSON(t, engine, http.MethodDelete, "/users/5/entitlements/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevokeEntitlement_OtherUsersGrant(t *testing.T) {
	h, entRepo := setupEntitlementHandler(t)
	engine := entitlementRouter(h)

	ent, err := entDomain.NewUserEntitlement(5, "starter", time.Now().UTC().Add(-time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, entRepo.Create(context.Background(), ent))

	rec := doJSON(t, engine, http.MethodDelete, "/users/6/entitlements/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	active, err := entRepo.GetActiveByUserID(context.Background(), 5, time.Now().UTC())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
