package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotaguard/internal/domain/quota"
	sharedConfig "quotaguard/internal/shared/config"
)

func TestTierLimits_ConvertsSentinelToUnbounded(t *testing.T) {
	cfg := &Config{
		Quota: sharedConfig.QuotaConfig{
			Tiers: map[string]sharedConfig.TierLimitConfig{
				"none":    {Hourly: 5, Daily: 20, Monthly: 100},
				"pro":     {Hourly: -1, Daily: -1, Monthly: 100000},
				"ultimate": {Hourly: -1, Daily: -1, Monthly: -1},
			},
		},
	}

	tiers, err := cfg.TierLimits()
	require.NoError(t, err)

	assert.Equal(t, quota.MustFinite(5), tiers["none"].Hourly)
	assert.True(t, tiers["pro"].Hourly.IsUnbounded())
	assert.True(t, tiers["pro"].Daily.IsUnbounded())
	assert.Equal(t, quota.MustFinite(100000), tiers["pro"].Monthly)
	assert.True(t, tiers["ultimate"].Monthly.IsUnbounded())
}

func TestTierLimits_AnyNegativeMeansUnlimited(t *testing.T) {
	cfg := &Config{
		Quota: sharedConfig.QuotaConfig{
			Tiers: map[string]sharedConfig.TierLimitConfig{
				"none": {Hourly: -7, Daily: 1, Monthly: 1},
			},
		},
	}

	tiers, err := cfg.TierLimits()
	require.NoError(t, err)
	assert.True(t, tiers["none"].Hourly.IsUnbounded())
}

func TestTierLimits_MissingFallbackTierFails(t *testing.T) {
	cfg := &Config{
		Quota: sharedConfig.QuotaConfig{
			Tiers: map[string]sharedConfig.TierLimitConfig{
				"starter": {Hourly: 100, Daily: 1000, Monthly: 10000},
			},
		},
	}

	_, err := cfg.TierLimits()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none")
}
