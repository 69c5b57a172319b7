package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBurstLimiter implements BurstLimiter with a sliding one-minute window
// kept in a redis sorted set per key.
type RedisBurstLimiter struct {
	client *redis.Client
}

// NewRedisBurstLimiter creates a redis-backed burst limiter
func NewRedisBurstLimiter(client *redis.Client) BurstLimiter {
	return &RedisBurstLimiter{client: client}
}

func (l *RedisBurstLimiter) Allow(ctx context.Context, key string, perMinute int) (bool, error) {
	if perMinute <= 0 {
		return true, nil
	}

	now := time.Now()
	redisKey := l.key(key)
	windowStart := now.Add(-time.Minute).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, redisKey, 2*time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute burst limiter pipeline: %w", err)
	}

	return zcard.Val() < int64(perMinute), nil
}

func (l *RedisBurstLimiter) Remaining(ctx context.Context, key string, perMinute int) (int64, error) {
	redisKey := l.key(key)
	windowStart := time.Now().Add(-time.Minute).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to read burst limiter window: %w", err)
	}

	remaining := int64(perMinute) - zcard.Val()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *RedisBurstLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset burst limiter key %s: %w", key, err)
	}
	return nil
}

func (l *RedisBurstLimiter) key(identifier string) string {
	return fmt.Sprintf("burst:%s", identifier)
}
