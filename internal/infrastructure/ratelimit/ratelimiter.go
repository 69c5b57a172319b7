// Package ratelimit provides short-window burst limiting in front of the
// durable quota counters. Burst limiting is a transport concern: it protects
// the service from request floods within a minute, while the quota engine
// owns the durable hourly, daily and monthly budgets.
package ratelimit

import "context"

// BurstLimiter bounds how many requests a key may make per minute.
type BurstLimiter interface {
	// Allow consumes one request slot for the key and reports whether the
	// request is within the per-minute limit.
	Allow(ctx context.Context, key string, perMinute int) (bool, error)

	// Remaining returns how many slots the key has left in the current
	// minute.
	Remaining(ctx context.Context, key string, perMinute int) (int64, error)

	// Reset clears the key's counters.
	Reset(ctx context.Context, key string) error
}
