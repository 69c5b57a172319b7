package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotaguard/internal/domain/entitlement"
	"quotaguard/internal/shared/db"
	"quotaguard/internal/shared/logger"
)

func newGrant(t *testing.T, userID uint, tag string) *entitlement.UserEntitlement {
	t.Helper()
	ent, err := entitlement.NewUserEntitlement(userID, tag, time.Now().UTC().Add(-time.Hour), nil)
	require.NoError(t, err)
	return ent
}

func TestUserEntitlementRepository_CreateAndGetByID(t *testing.T) {
	repo := NewUserEntitlementRepository(setupTestDB(t), logger.Nop())
	ctx := context.Background()

	ent := newGrant(t, 1, "starter")
	require.NoError(t, repo.Create(ctx, ent))
	require.NotZero(t, ent.ID())

	loaded, err := repo.GetByID(ctx, ent.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, ent.ID(), loaded.ID())
	assert.Equal(t, uint(1), loaded.UserID())
	assert.Equal(t, "starter", loaded.Tag())
	assert.Equal(t, entitlement.StatusActive, loaded.Status())
}

func TestUserEntitlementRepository_GetByID_Missing(t *testing.T) {
	repo := NewUserEntitlementRepository(setupTestDB(t), logger.Nop())

	loaded, err := repo.GetByID(context.Background(), 12345)

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestUserEntitlementRepository_UpdatePersistsRevocation(t *testing.T) {
	repo := NewUserEntitlementRepository(setupTestDB(t), logger.Nop())
	ctx := context.Background()

	ent := newGrant(t, 1, "pro")
	require.NoError(t, repo.Create(ctx, ent))

	require.NoError(t, ent.Revoke())
	require.NoError(t, repo.Update(ctx, ent))

	loaded, err := repo.GetByID(ctx, ent.ID())
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusRevoked, loaded.Status())
	assert.False(t, loaded.IsActive(time.Now().UTC()))
}

func TestUserEntitlementRepository_UpdateUnknownGrant(t *testing.T) {
	repo := NewUserEntitlementRepository(setupTestDB(t), logger.Nop())
	ctx := context.Background()

	ent := newGrant(t, 1, "pro")
	require.NoError(t, repo.Create(ctx, ent))
	require.NoError(t, ent.Revoke())

	gdb := setupTestDB(t)
	other := NewUserEntitlementRepository(gdb, logger.Nop())
	err := other.Update(ctx, ent)

	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")
}

func TestUserEntitlementRepository_RevokeInTransactionRollsBack(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewUserEntitlementRepository(gdb, logger.Nop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	ent := newGrant(t, 1, "starter")
	require.NoError(t, repo.Create(ctx, ent))

	sentinel := errors.New("abort")
	err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
		loaded, err := repo.GetByID(ctx, ent.ID())
		require.NoError(t, err)
		require.NoError(t, loaded.Revoke())
		require.NoError(t, repo.Update(ctx, loaded))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	loaded, err := repo.GetByID(ctx, ent.ID())
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, loaded.Status())
}
