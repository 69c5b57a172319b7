package usecases

import (
	"context"
	"fmt"

	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/domain/quota"
	"quotaguard/internal/shared/errors"
	"quotaguard/internal/shared/logger"
)

// GetUsageHistoryUseCase lists a user's counted windows for one period type,
// most recent first. Only windows that actually saw requests appear; gaps
// are not back-filled.
type GetUsageHistoryUseCase struct {
	checker      *quota.Checker
	defaultLimit int
	logger       logger.Interface
}

// NewGetUsageHistoryUseCase creates a new get usage history use case
func NewGetUsageHistoryUseCase(checker *quota.Checker, defaultLimit int, logger logger.Interface) *GetUsageHistoryUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 30
	}
	return &GetUsageHistoryUseCase{
		checker:      checker,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Execute executes the get usage history use case. An unknown period type is
// a caller input error, reported distinctly from storage failures.
func (uc *GetUsageHistoryUseCase) Execute(ctx context.Context, userID uint, periodType string, limit int) (*dto.UsageHistoryResponse, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	pt, err := quota.ParsePeriodType(periodType)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid period type: %s", periodType))
	}

	if limit <= 0 {
		limit = uc.defaultLimit
	}

	counters, err := uc.checker.History(ctx, userID, pt, limit)
	if err != nil {
		uc.logger.Errorw("usage history read failed",
			"user_id", userID,
			"period_type", pt,
			"error", err,
		)
		return nil, err
	}

	entries := make([]dto.UsageHistoryEntry, 0, len(counters))
	for _, c := range counters {
		entries = append(entries, dto.UsageHistoryEntry{
			PeriodStart:  c.PeriodStart(),
			PeriodEnd:    c.PeriodEnd(),
			RequestCount: c.RequestCount(),
		})
	}

	return &dto.UsageHistoryResponse{
		UserID:     userID,
		PeriodType: pt.String(),
		Entries:    entries,
	}, nil
}
