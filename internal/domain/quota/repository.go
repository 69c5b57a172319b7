package quota

import (
	"context"
	"time"
)

// IncrementOutcome reports the result of one atomic check-and-increment
// against a single counter row.
type IncrementOutcome struct {
	// Count is the stored request count after the operation.
	Count int
	// Admitted is true when the request was under the limit and the count
	// was incremented. Denied requests leave the stored count untouched.
	Admitted bool
}

// UsageCounterRepository is the storage port for quota counters. The
// implementation must enforce a uniqueness constraint on
// (userID, periodType, periodStart) and serialize concurrent increments for
// the same key so counts are never lost; operations on different keys must
// not block each other.
type UsageCounterRepository interface {
	// IncrementIfBelow locates or lazily creates the counter row for the
	// window and increments it only while the stored count is below limit.
	// The insert-or-fetch-then-increment sequence is a single atomic
	// operation at the storage boundary, not a fetch+compare+write pair.
	IncrementIfBelow(ctx context.Context, userID uint, periodType PeriodType, window Window, limit int) (*IncrementOutcome, error)

	// GetCount returns the stored count for the window, or zero when no row
	// exists yet. It never creates a row.
	GetCount(ctx context.Context, userID uint, periodType PeriodType, periodStart time.Time) (int, error)

	// ListByUser returns the user's counters for one period type ordered by
	// periodStart descending, capped at limit. Windows without rows are not
	// back-filled.
	ListByUser(ctx context.Context, userID uint, periodType PeriodType, limit int) ([]*UsageCounter, error)
}

// CheckResult is the outcome of one quota check. Allowed is false iff
// admitting the request would exceed any finite-limited period. Remaining is
// reported per period independently of which period caused a denial.
type CheckResult struct {
	Allowed   bool
	Remaining LimitSet
}
