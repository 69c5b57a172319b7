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

// CheckQuotaUseCase runs the full admission flow: resolve the user's
// entitlement tags into effective limits, then check and consume quota
// against the durable counters.
type CheckQuotaUseCase struct {
	source  entitlement.Source
	checker *quota.Checker
	tiers   quota.TierLimits
	logger  logger.Interface
}

// NewCheckQuotaUseCase creates a new check quota use case
func NewCheckQuotaUseCase(
	source entitlement.Source,
	checker *quota.Checker,
	tiers quota.TierLimits,
	logger logger.Interface,
) *CheckQuotaUseCase {
	return &CheckQuotaUseCase{
		source:  source,
		checker: checker,
		tiers:   tiers,
		logger:  logger,
	}
}

// Execute executes the check quota use case. A user without a subscription
// is checked against the fallback tier; any other entitlement source failure
// propagates so the caller can apply its fail-open or fail-closed policy.
func (uc *CheckQuotaUseCase) Execute(ctx context.Context, request dto.CheckQuotaRequest) (*dto.CheckQuotaResponse, error) {
	if request.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	tags, anchor, err := uc.resolveSubscription(ctx, request.UserID)
	if err != nil {
		return nil, err
	}

	limits := quota.ResolveLimits(tags, uc.tiers)
	now := time.Now().UTC()

	var result *quota.CheckResult
	if request.DryRun {
		result, err = uc.checker.CheckOnly(ctx, request.UserID, limits, anchor, now)
	} else {
		result, err = uc.checker.CheckAndIncrement(ctx, request.UserID, limits, anchor, now)
	}
	if err != nil {
		uc.logger.Errorw("quota check failed",
			"user_id", request.UserID,
			"dry_run", request.DryRun,
			"error", err,
		)
		return nil, err
	}

	if !result.Allowed {
		uc.logger.Infow("quota exceeded",
			"user_id", request.UserID,
			"tags", tags,
		)
	}

	return &dto.CheckQuotaResponse{
		UserID:    request.UserID,
		Allowed:   result.Allowed,
		Remaining: dto.NewLimitTripleResponse(result.Remaining),
	}, nil
}

func (uc *CheckQuotaUseCase) resolveSubscription(ctx context.Context, userID uint) ([]string, *time.Time, error) {
	info, err := uc.source.GetSubscriptionInfo(ctx, userID)
	if err != nil {
		if errors.Is(err, entitlement.ErrNoSubscription) {
			// recognized outcome: the user simply has no subscription
			return []string{quota.FallbackTier}, nil, nil
		}
		uc.logger.Errorw("entitlement source failed",
			"user_id", userID,
			"error", err,
		)
		return nil, nil, fmt.Errorf("failed to resolve subscription for user %d: %w", userID, err)
	}

	return info.Tags, info.SubscribedAt, nil
}
