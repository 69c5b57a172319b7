package ratelimit

import "context"

type nopLimiter struct{}

// Nop returns a limiter that admits everything. Used when the burst limiter
// is disabled or redis is not configured.
func Nop() BurstLimiter {
	return nopLimiter{}
}

func (nopLimiter) Allow(context.Context, string, int) (bool, error) {
	return true, nil
}

func (nopLimiter) Remaining(_ context.Context, _ string, perMinute int) (int64, error) {
	return int64(perMinute), nil
}

func (nopLimiter) Reset(context.Context, string) error {
	return nil
}
