package quota

import (
	"context"
	"fmt"
	"time"
)

// Checker is the check-and-increment engine. It evaluates every configured
// period against the durable counter store and aggregates the outcome. The
// checker holds no mutable state of its own; all coordination between
// concurrent callers happens at the storage boundary.
type Checker struct {
	counters UsageCounterRepository
}

// NewChecker creates a checker backed by the given counter repository.
func NewChecker(counters UsageCounterRepository) *Checker {
	return &Checker{counters: counters}
}

// CheckAndIncrement admits or denies one request against the effective
// limits. Periods are evaluated in order hourly, daily, monthly. A period
// with an unbounded limit never touches storage and contributes an unbounded
// remaining count. A finite period is incremented only while under its
// limit; the denying period's stored count is left untouched. The call is
// allowed only when every finite-limited period admitted the request.
//
// Storage failures propagate to the caller unchanged; whether to fail open
// or closed is the caller's policy, never decided here.
func (c *Checker) CheckAndIncrement(ctx context.Context, userID uint, limits LimitSet, anchor *time.Time, now time.Time) (*CheckResult, error) {
	return c.check(ctx, userID, limits, anchor, now, true)
}

// CheckOnly computes the same outcome as CheckAndIncrement without mutating
// any stored count.
func (c *Checker) CheckOnly(ctx context.Context, userID uint, limits LimitSet, anchor *time.Time, now time.Time) (*CheckResult, error) {
	return c.check(ctx, userID, limits, anchor, now, false)
}

func (c *Checker) check(ctx context.Context, userID uint, limits LimitSet, anchor *time.Time, now time.Time, increment bool) (*CheckResult, error) {
	result := &CheckResult{Allowed: true}

	for _, pt := range AllPeriodTypes() {
		limit, err := limits.ForPeriod(pt)
		if err != nil {
			return nil, err
		}

		if limit.IsUnbounded() {
			if err := setRemaining(&result.Remaining, pt, Unbounded()); err != nil {
				return nil, err
			}
			continue
		}

		window, err := WindowFor(pt, anchor, now)
		if err != nil {
			return nil, err
		}

		var count int
		var admitted bool
		if increment {
			outcome, err := c.counters.IncrementIfBelow(ctx, userID, pt, window, limit.Value())
			if err != nil {
				return nil, fmt.Errorf("failed to increment %s counter: %w", pt, err)
			}
			count = outcome.Count
			admitted = outcome.Admitted
		} else {
			count, err = c.counters.GetCount(ctx, userID, pt, window.Start)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s counter: %w", pt, err)
			}
			admitted = count < limit.Value()
		}

		if !admitted {
			result.Allowed = false
		}

		left := limit.Value() - count
		if left < 0 {
			left = 0
		}
		if err := setRemaining(&result.Remaining, pt, MustFinite(left)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// History lists the user's counter rows for one period type, most recent
// window first, capped at limit entries. Only windows that actually saw
// traffic have rows; gaps are not back-filled.
func (c *Checker) History(ctx context.Context, userID uint, periodType PeriodType, limit int) ([]*UsageCounter, error) {
	if !periodType.IsValid() {
		return nil, fmt.Errorf("invalid period type: %s", periodType)
	}
	if limit <= 0 {
		limit = 30
	}

	counters, err := c.counters.ListByUser(ctx, userID, periodType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage history: %w", err)
	}
	return counters, nil
}

func setRemaining(s *LimitSet, pt PeriodType, l Limit) error {
	switch pt {
	case PeriodTypeHourly:
		s.Hourly = l
	case PeriodTypeDaily:
		s.Daily = l
	case PeriodTypeMonthly:
		s.Monthly = l
	default:
		return fmt.Errorf("invalid period type: %s", pt)
	}
	return nil
}
