// Package quota wires the quota domain into an application service consumed
// by the HTTP layer and the enforcement middleware.
package quota

import (
	"context"

	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/application/quota/usecases"
	"quotaguard/internal/domain/entitlement"
	domain "quotaguard/internal/domain/quota"
	"quotaguard/internal/shared/logger"
)

// Service is the application facade over the quota use cases.
type Service struct {
	checkQuota      *usecases.CheckQuotaUseCase
	getQuotaStatus  *usecases.GetQuotaStatusUseCase
	getUsageHistory *usecases.GetUsageHistoryUseCase
}

// NewService creates the quota application service. The tier table must
// already be validated by config loading.
func NewService(
	source entitlement.Source,
	counters domain.UsageCounterRepository,
	tiers domain.TierLimits,
	historyDefaultLimit int,
	log logger.Interface,
) *Service {
	checker := domain.NewChecker(counters)

	return &Service{
		checkQuota:      usecases.NewCheckQuotaUseCase(source, checker, tiers, log.Named("usecase.check_quota")),
		getQuotaStatus:  usecases.NewGetQuotaStatusUseCase(source, checker, tiers, log.Named("usecase.quota_status")),
		getUsageHistory: usecases.NewGetUsageHistoryUseCase(checker, historyDefaultLimit, log.Named("usecase.usage_history")),
	}
}

// CheckQuota admits or denies one request, consuming quota unless DryRun is
// set.
func (s *Service) CheckQuota(ctx context.Context, request dto.CheckQuotaRequest) (*dto.CheckQuotaResponse, error) {
	return s.checkQuota.Execute(ctx, request)
}

// GetQuotaStatus reports effective limits and remaining quota without
// consuming anything.
func (s *Service) GetQuotaStatus(ctx context.Context, userID uint) (*dto.QuotaStatusResponse, error) {
	return s.getQuotaStatus.Execute(ctx, userID)
}

// GetUsageHistory lists counted windows for one period type.
func (s *Service) GetUsageHistory(ctx context.Context, userID uint, periodType string, limit int) (*dto.UsageHistoryResponse, error) {
	return s.getUsageHistory.Execute(ctx, userID, periodType, limit)
}
