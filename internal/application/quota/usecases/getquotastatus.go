package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/domain/entitlement"
	"quotaguard/internal/domain/quota"
	"quotaguard/internal/shared/logger"
)

// GetQuotaStatusUseCase reports the user's effective limits and remaining
// quota without consuming anything. Backs the quota status UI.
type GetQuotaStatusUseCase struct {
	source  entitlement.Source
	checker *quota.Checker
	tiers   quota.TierLimits
	logger  logger.Interface
}

// NewGetQuotaStatusUseCase creates a new get quota status use case
func NewGetQuotaStatusUseCase(
	source entitlement.Source,
	checker *quota.Checker,
	tiers quota.TierLimits,
	logger logger.Interface,
) *GetQuotaStatusUseCase {
	return &GetQuotaStatusUseCase{
		source:  source,
		checker: checker,
		tiers:   tiers,
		logger:  logger,
	}
}

// Execute executes the get quota status use case
func (uc *GetQuotaStatusUseCase) Execute(ctx context.Context, userID uint) (*dto.QuotaStatusResponse, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	tags := []string{quota.FallbackTier}
	var anchor *time.Time

	info, err := uc.source.GetSubscriptionInfo(ctx, userID)
	if err != nil && !errors.Is(err, entitlement.ErrNoSubscription) {
		uc.logger.Errorw("entitlement source failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to resolve subscription for user %d: %w", userID, err)
	}
	if err == nil {
		tags = info.Tags
		anchor = info.SubscribedAt
	}

	limits := quota.ResolveLimits(tags, uc.tiers)

	result, err := uc.checker.CheckOnly(ctx, userID, limits, anchor, time.Now().UTC())
	if err != nil {
		uc.logger.Errorw("quota status read failed", "user_id", userID, "error", err)
		return nil, err
	}

	return &dto.QuotaStatusResponse{
		UserID:    userID,
		Tags:      tags,
		Limits:    dto.NewLimitTripleResponse(limits),
		Remaining: dto.NewLimitTripleResponse(result.Remaining),
	}, nil
}
