package entitlement

import (
	"context"
	"errors"
	"time"
)

// ErrNoSubscription is returned by a Source when the user has no
// subscription on record. It is a recognized outcome, not a failure: callers
// map it to the fallback tier. Any other error from a Source is an upstream
// failure and must propagate untouched.
var ErrNoSubscription = errors.New("no subscription found for user")

// Info is what the quota engine needs to know about a user's subscription.
type Info struct {
	// Tags holds the active entitlement tags. Never empty for a valid Info;
	// a user without a subscription is reported via ErrNoSubscription.
	Tags []string
	// SubscribedAt anchors the user's monthly quota windows. Nil when the
	// subscription start is unknown, in which case monthly windows fall back
	// to calendar months.
	SubscribedAt *time.Time
}

// Source supplies subscription information for quota resolution. The
// production implementation reads the entitlement store; deployments that
// sync tags from an external billing provider plug their client in here.
type Source interface {
	GetSubscriptionInfo(ctx context.Context, userID uint) (*Info, error)
}
