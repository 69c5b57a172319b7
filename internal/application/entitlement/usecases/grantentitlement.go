package usecases

import (
	"context"
	"time"

	"quotaguard/internal/application/entitlement/dto"
	"quotaguard/internal/domain/entitlement"
	apperrors "quotaguard/internal/shared/errors"
	"quotaguard/internal/shared/logger"
)

// GrantEntitlementUseCase creates a new active grant of a tier tag for a
// user. Billing sync and admin tooling enter grants through this path.
type GrantEntitlementUseCase struct {
	repo   entitlement.Repository
	logger logger.Interface
}

// NewGrantEntitlementUseCase creates a new grant entitlement use case
func NewGrantEntitlementUseCase(repo entitlement.Repository, logger logger.Interface) *GrantEntitlementUseCase {
	return &GrantEntitlementUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute executes the grant entitlement use case
func (uc *GrantEntitlementUseCase) Execute(ctx context.Context, userID uint, request dto.GrantEntitlementRequest) (*dto.EntitlementResponse, error) {
	if userID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	grantedAt := time.Now().UTC()
	if request.GrantedAt != nil {
		grantedAt = request.GrantedAt.UTC()
	}

	ent, err := entitlement.NewUserEntitlement(userID, request.Tag, grantedAt, request.ExpiresAt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, ent); err != nil {
		uc.logger.Errorw("failed to create entitlement grant",
			"user_id", userID,
			"tag", request.Tag,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("entitlement granted",
		"id", ent.ID(),
		"user_id", userID,
		"tag", request.Tag,
	)

	return dto.NewEntitlementResponse(ent), nil
}
