package usecases

import (
	"context"

	"quotaguard/internal/application/entitlement/dto"
	"quotaguard/internal/domain/entitlement"
	apperrors "quotaguard/internal/shared/errors"
	"quotaguard/internal/shared/logger"
)

// TransactionRunner executes a function within a storage transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RevokeEntitlementUseCase revokes a user's grant. The read and the status
// update run in one transaction so a concurrent revoke cannot interleave.
type RevokeEntitlementUseCase struct {
	repo   entitlement.Repository
	tx     TransactionRunner
	logger logger.Interface
}

// NewRevokeEntitlementUseCase creates a new revoke entitlement use case
func NewRevokeEntitlementUseCase(
	repo entitlement.Repository,
	tx TransactionRunner,
	logger logger.Interface,
) *RevokeEntitlementUseCase {
	return &RevokeEntitlementUseCase{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

// Execute executes the revoke entitlement use case. The grant must belong to
// the given user; a grant owned by someone else reads as not found.
func (uc *RevokeEntitlementUseCase) Execute(ctx context.Context, userID, entitlementID uint) (*dto.EntitlementResponse, error) {
	if userID == 0 || entitlementID == 0 {
		return nil, apperrors.NewValidationError("user ID and entitlement ID are required")
	}

	var revoked *entitlement.UserEntitlement
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		ent, err := uc.repo.GetByID(ctx, entitlementID)
		if err != nil {
			return err
		}
		if ent == nil || ent.UserID() != userID {
			return apperrors.NewNotFoundError("entitlement not found")
		}

		if err := ent.Revoke(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if err := uc.repo.Update(ctx, ent); err != nil {
			return err
		}

		revoked = ent
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			uc.logger.Errorw("failed to revoke entitlement",
				"user_id", userID,
				"entitlement_id", entitlementID,
				"error", err,
			)
		}
		return nil, err
	}

	uc.logger.Infow("entitlement revoked",
		"id", entitlementID,
		"user_id", userID,
		"tag", revoked.Tag(),
	)

	return dto.NewEntitlementResponse(revoked), nil
}
