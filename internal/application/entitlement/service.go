// Package entitlement wires grant management into an application service
// consumed by the admin HTTP surface. The quota flow reads grants through
// the entitlement source; writes go through this service.
package entitlement

import (
	"context"

	"quotaguard/internal/application/entitlement/dto"
	"quotaguard/internal/application/entitlement/usecases"
	domain "quotaguard/internal/domain/entitlement"
	"quotaguard/internal/shared/logger"
)

// Service is the application facade over the entitlement use cases.
type Service struct {
	grant  *usecases.GrantEntitlementUseCase
	revoke *usecases.RevokeEntitlementUseCase
}

// NewService creates the entitlement application service.
func NewService(repo domain.Repository, tx usecases.TransactionRunner, log logger.Interface) *Service {
	return &Service{
		grant:  usecases.NewGrantEntitlementUseCase(repo, log.Named("usecase.grant_entitlement")),
		revoke: usecases.NewRevokeEntitlementUseCase(repo, tx, log.Named("usecase.revoke_entitlement")),
	}
}

// Grant creates an active grant of a tier tag for the user.
func (s *Service) Grant(ctx context.Context, userID uint, request dto.GrantEntitlementRequest) (*dto.EntitlementResponse, error) {
	return s.grant.Execute(ctx, userID, request)
}

// Revoke marks the user's grant as revoked.
func (s *Service) Revoke(ctx context.Context, userID, entitlementID uint) (*dto.EntitlementResponse, error) {
	return s.revoke.Execute(ctx, userID, entitlementID)
}
