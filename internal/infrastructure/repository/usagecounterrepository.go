package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quotaguard/internal/domain/quota"
	"quotaguard/internal/infrastructure/persistence/mappers"
	"quotaguard/internal/infrastructure/persistence/models"
	"quotaguard/internal/shared/db"
	"quotaguard/internal/shared/logger"
)

// UsageCounterRepositoryImpl implements the quota.UsageCounterRepository
// interface on top of the relational counter table.
type UsageCounterRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UsageCounterMapper
	logger logger.Interface
}

// NewUsageCounterRepository creates a new usage counter repository instance
func NewUsageCounterRepository(gdb *gorm.DB, logger logger.Interface) quota.UsageCounterRepository {
	return &UsageCounterRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewUsageCounterMapper(),
		logger: logger,
	}
}

// IncrementIfBelow locates or creates the counter row for the window and
// increments it only while under limit. The sequence is two statements, each
// atomic on its own: an insert that defers to the unique index on
// (user_id, period_type, period_start) when the row already exists, then a
// conditional UPDATE whose WHERE clause re-checks the limit under the row
// lock. Losing the insert race is fine; the increment never is, because the
// counter is only ever advanced by the guarded UPDATE.
func (r *UsageCounterRepositoryImpl) IncrementIfBelow(
	ctx context.Context,
	userID uint,
	periodType quota.PeriodType,
	window quota.Window,
	limit int,
) (*quota.IncrementOutcome, error) {
	conn := db.FromContext(ctx, r.db)
	now := time.Now().UTC()

	model := &models.UsageCounterModel{
		UserID:       userID,
		PeriodType:   periodType.String(),
		PeriodStart:  window.Start,
		PeriodEnd:    window.End,
		RequestCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "period_type"},
			{Name: "period_start"},
		},
		DoNothing: true,
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to ensure usage counter row",
			"user_id", userID,
			"period_type", periodType,
			"period_start", window.Start,
			"error", err,
		)
		return nil, fmt.Errorf("failed to ensure usage counter row: %w", err)
	}

	res := conn.Model(&models.UsageCounterModel{}).
		Where("user_id = ? AND period_type = ? AND period_start = ? AND request_count < ?",
			userID, periodType.String(), window.Start, limit).
		Updates(map[string]interface{}{
			"request_count": gorm.Expr("request_count + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		r.logger.Errorw("failed to increment usage counter",
			"user_id", userID,
			"period_type", periodType,
			"period_start", window.Start,
			"error", res.Error,
		)
		return nil, fmt.Errorf("failed to increment usage counter: %w", res.Error)
	}
	admitted := res.RowsAffected > 0

	count, err := r.GetCount(ctx, userID, periodType, window.Start)
	if err != nil {
		return nil, err
	}

	if !admitted {
		r.logger.Debugw("usage counter at limit",
			"user_id", userID,
			"period_type", periodType,
			"count", count,
			"limit", limit,
		)
	}

	return &quota.IncrementOutcome{Count: count, Admitted: admitted}, nil
}

// GetCount returns the stored count for the window without creating a row.
func (r *UsageCounterRepositoryImpl) GetCount(
	ctx context.Context,
	userID uint,
	periodType quota.PeriodType,
	periodStart time.Time,
) (int, error) {
	conn := db.FromContext(ctx, r.db)

	var model models.UsageCounterModel
	err := conn.
		Where("user_id = ? AND period_type = ? AND period_start = ?", userID, periodType.String(), periodStart).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		r.logger.Errorw("failed to read usage counter",
			"user_id", userID,
			"period_type", periodType,
			"period_start", periodStart,
			"error", err,
		)
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}

	// floor garbled rows at zero for reporting, never rewrite them
	if model.RequestCount < 0 {
		return 0, nil
	}
	return model.RequestCount, nil
}

// ListByUser returns the user's counter rows for one period type ordered by
// period_start descending, capped at limit.
func (r *UsageCounterRepositoryImpl) ListByUser(
	ctx context.Context,
	userID uint,
	periodType quota.PeriodType,
	limit int,
) ([]*quota.UsageCounter, error) {
	conn := db.FromContext(ctx, r.db)

	var counterModels []*models.UsageCounterModel
	err := conn.
		Where("user_id = ? AND period_type = ?", userID, periodType.String()).
		Order("period_start DESC").
		Limit(limit).
		Find(&counterModels).Error
	if err != nil {
		r.logger.Errorw("failed to list usage counters",
			"user_id", userID,
			"period_type", periodType,
			"error", err,
		)
		return nil, fmt.Errorf("failed to list usage counters: %w", err)
	}

	entities, err := r.mapper.ToEntities(counterModels)
	if err != nil {
		r.logger.Errorw("failed to map usage counter models to entities", "error", err)
		return nil, fmt.Errorf("failed to map usage counters: %w", err)
	}

	return entities, nil
}
