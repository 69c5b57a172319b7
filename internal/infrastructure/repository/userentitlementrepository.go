package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"quotaguard/internal/domain/entitlement"
	"quotaguard/internal/infrastructure/persistence/mappers"
	"quotaguard/internal/infrastructure/persistence/models"
	"quotaguard/internal/shared/db"
	"quotaguard/internal/shared/logger"
)

// UserEntitlementRepositoryImpl implements the entitlement.Repository
// interface
type UserEntitlementRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserEntitlementMapper
	logger logger.Interface
}

// NewUserEntitlementRepository creates a new user entitlement repository
// instance
func NewUserEntitlementRepository(gdb *gorm.DB, logger logger.Interface) entitlement.Repository {
	return &UserEntitlementRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewUserEntitlementMapper(),
		logger: logger,
	}
}

// Create persists a new entitlement grant
func (r *UserEntitlementRepositoryImpl) Create(ctx context.Context, ent *entitlement.UserEntitlement) error {
	conn := db.FromContext(ctx, r.db)

	model := r.mapper.ToModel(ent)
	if err := conn.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user entitlement",
			"user_id", model.UserID,
			"tag", model.Tag,
			"error", err,
		)
		return fmt.Errorf("failed to create user entitlement: %w", err)
	}

	if ent.ID() == 0 && model.ID != 0 {
		if err := ent.SetID(model.ID); err != nil {
			r.logger.Warnw("failed to set user entitlement ID", "error", err)
		}
	}

	r.logger.Infow("user entitlement created",
		"id", model.ID,
		"user_id", model.UserID,
		"tag", model.Tag,
	)
	return nil
}

// GetByID returns the grant with the given ID, or nil when absent
func (r *UserEntitlementRepositoryImpl) GetByID(ctx context.Context, id uint) (*entitlement.UserEntitlement, error) {
	conn := db.FromContext(ctx, r.db)

	var model models.UserEntitlementModel
	if err := conn.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user entitlement",
			"id", id,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get user entitlement: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map user entitlement model to entity", "error", err)
		return nil, fmt.Errorf("failed to map user entitlement: %w", err)
	}

	return entity, nil
}

// GetActiveByUserID returns the user's grants that are active at now
func (r *UserEntitlementRepositoryImpl) GetActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]*entitlement.UserEntitlement, error) {
	conn := db.FromContext(ctx, r.db)

	var entitlementModels []*models.UserEntitlementModel
	err := conn.
		Where("user_id = ? AND status = ?", userID, entitlement.StatusActive.String()).
		Where("expires_at IS NULL OR expires_at > ?", now.UTC()).
		Find(&entitlementModels).Error
	if err != nil {
		r.logger.Errorw("failed to get active entitlements",
			"user_id", userID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get active entitlements: %w", err)
	}

	entities, err := r.mapper.ToEntities(entitlementModels)
	if err != nil {
		r.logger.Errorw("failed to map user entitlement models to entities", "error", err)
		return nil, fmt.Errorf("failed to map user entitlements: %w", err)
	}

	return entities, nil
}

// GetEarliestGrantTime returns the oldest grant time for the user, or nil
// when the user has no grants at all
func (r *UserEntitlementRepositoryImpl) GetEarliestGrantTime(ctx context.Context, userID uint) (*time.Time, error) {
	conn := db.FromContext(ctx, r.db)

	var model models.UserEntitlementModel
	err := conn.
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get earliest grant time",
			"user_id", userID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get earliest grant time: %w", err)
	}

	granted := model.GrantedAt
	return &granted, nil
}

// Update persists status changes to an existing grant
func (r *UserEntitlementRepositoryImpl) Update(ctx context.Context, ent *entitlement.UserEntitlement) error {
	conn := db.FromContext(ctx, r.db)

	model := r.mapper.ToModel(ent)
	res := conn.Model(&models.UserEntitlementModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"expires_at": model.ExpiresAt,
			"updated_at": model.UpdatedAt,
		})
	if res.Error != nil {
		r.logger.Errorw("failed to update user entitlement",
			"id", model.ID,
			"error", res.Error,
		)
		return fmt.Errorf("failed to update user entitlement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user entitlement %d not found", model.ID)
	}

	return nil
}
