// Package entitlement provides the store-backed implementation of the
// entitlement source consumed by the quota engine.
package entitlement

import (
	"context"
	"fmt"
	"time"

	domain "quotaguard/internal/domain/entitlement"
	"quotaguard/internal/shared/logger"
)

// StoreSource resolves subscription information from the entitlement store.
// Deployments that sync entitlements from an external billing provider still
// read through this source; the sync job writes into the same store.
type StoreSource struct {
	repo   domain.Repository
	logger logger.Interface
}

// NewStoreSource creates a store-backed entitlement source
func NewStoreSource(repo domain.Repository, logger logger.Interface) *StoreSource {
	return &StoreSource{
		repo:   repo,
		logger: logger,
	}
}

// GetSubscriptionInfo returns the user's active tags and subscription
// anchor. A user without any active grant yields ErrNoSubscription, which
// callers map to the fallback tier; storage failures propagate unchanged so
// the caller decides whether to fail open or closed.
func (s *StoreSource) GetSubscriptionInfo(ctx context.Context, userID uint) (*domain.Info, error) {
	now := time.Now().UTC()

	grants, err := s.repo.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlements for user %d: %w", userID, err)
	}

	if len(grants) == 0 {
		return nil, domain.ErrNoSubscription
	}

	seen := make(map[string]struct{}, len(grants))
	tags := make([]string, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.Tag()]; ok {
			continue
		}
		seen[g.Tag()] = struct{}{}
		tags = append(tags, g.Tag())
	}

	anchor, err := s.repo.GetEarliestGrantTime(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription anchor for user %d: %w", userID, err)
	}

	s.logger.Debugw("resolved subscription info",
		"user_id", userID,
		"tags", tags,
	)

	return &domain.Info{
		Tags:         tags,
		SubscribedAt: anchor,
	}, nil
}
