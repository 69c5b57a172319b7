package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/domain/entitlement"
	"quotaguard/internal/domain/quota"
	"quotaguard/internal/shared/logger"
)

func newStatusUseCase(source entitlement.Source, repo quota.UsageCounterRepository) *GetQuotaStatusUseCase {
	return NewGetQuotaStatusUseCase(source, quota.NewChecker(repo), testTierTable(), logger.Nop())
}

func TestGetQuotaStatus_ReportsLimitsAndRemaining(t *testing.T) {
	source := &fakeSource{info: &entitlement.Info{Tags: []string{"starter"}}}
	repo := newMemCounterRepo()

	// consume a little quota first
	checkUC := newCheckUseCase(source, repo)
	for i := 0; i < 3; i++ {
		_, err := checkUC.Execute(context.Background(), dto.CheckQuotaRequest{UserID: 1})
		require.NoError(t, err)
	}

	resp, err := newStatusUseCase(source, repo).Execute(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"starter"}, resp.Tags)
	assert.Equal(t, 100, resp.Limits.Hourly.Value())
	assert.Equal(t, 97, resp.Remaining.Hourly.Value())
}

func TestGetQuotaStatus_StatusReadIsFree(t *testing.T) {
	source := &fakeSource{info: &entitlement.Info{Tags: []string{"starter"}}}
	repo := newMemCounterRepo()
	uc := newStatusUseCase(source, repo)

	for i := 0; i < 4; i++ {
		_, err := uc.Execute(context.Background(), 1)
		require.NoError(t, err)
	}

	assert.Empty(t, repo.counts)
}

func TestGetQuotaStatus_FallbackTierForUnsubscribed(t *testing.T) {
	source := &fakeSource{err: entitlement.ErrNoSubscription}

	resp, err := newStatusUseCase(source, newMemCounterRepo()).Execute(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []string{quota.FallbackTier}, resp.Tags)
	assert.Equal(t, 5, resp.Limits.Hourly.Value())
}

func TestGetQuotaStatus_UpstreamFailurePropagates(t *testing.T) {
	source := &fakeSource{err: errors.New("entitlement store down")}

	resp, err := newStatusUseCase(source, newMemCounterRepo()).Execute(context.Background(), 1)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entitlement store down")
}
