package entitlement

import (
	"context"
	"time"
)

// Repository defines the persistence port for entitlement grants.
type Repository interface {
	// Create persists a new grant and sets its ID.
	Create(ctx context.Context, ent *UserEntitlement) error

	// GetByID returns the grant with the given ID, or nil when no such
	// grant exists.
	GetByID(ctx context.Context, id uint) (*UserEntitlement, error)

	// GetActiveByUserID returns the user's grants that are active at the
	// given instant.
	GetActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]*UserEntitlement, error)

	// GetEarliestGrantTime returns when the user's oldest grant took effect,
	// used as the subscription anchor for monthly windows. Returns nil when
	// the user has no grants.
	GetEarliestGrantTime(ctx context.Context, userID uint) (*time.Time, error)

	// Update persists status changes to an existing grant.
	Update(ctx context.Context, ent *UserEntitlement) error
}
