// Package quota provides the domain model for subscription request quotas.
// It covers effective limit resolution from entitlement tags, UTC time window
// arithmetic, and the usage counter entity enforced against those windows.
package quota

import "fmt"

// Limit represents a request cap for a single period. It is either a finite
// non-negative count or unbounded. Unbounded is an explicit variant, never a
// sentinel integer.
type Limit struct {
	value     int
	unbounded bool
}

// Unbounded returns a limit with no cap.
func Unbounded() Limit {
	return Limit{unbounded: true}
}

// Finite returns a limit capped at n requests per period.
func Finite(n int) (Limit, error) {
	if n < 0 {
		return Limit{}, fmt.Errorf("limit cannot be negative: %d", n)
	}
	return Limit{value: n}, nil
}

// MustFinite returns a finite limit and panics on negative input.
// Intended for tests and static configuration tables.
func MustFinite(n int) Limit {
	l, err := Finite(n)
	if err != nil {
		panic(err)
	}
	return l
}

// IsUnbounded reports whether no cap is enforced.
func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// Value returns the finite cap. Only meaningful when IsUnbounded is false.
func (l Limit) Value() int {
	return l.value
}

// LessThan reports whether l admits strictly fewer requests than other.
// Unbounded is never less than anything; any finite limit is less than
// unbounded.
func (l Limit) LessThan(other Limit) bool {
	if l.unbounded {
		return false
	}
	if other.unbounded {
		return true
	}
	return l.value < other.value
}

// Max returns the most permissive of the two limits. Unbounded beats any
// finite value; among finite values the larger wins.
func (l Limit) Max(other Limit) Limit {
	if l.unbounded || other.unbounded {
		return Unbounded()
	}
	if other.value > l.value {
		return other
	}
	return l
}

// String returns the string representation of the limit.
func (l Limit) String() string {
	if l.unbounded {
		return "unlimited"
	}
	return fmt.Sprintf("%d", l.value)
}

// LimitSet holds the effective limits for each quota period.
type LimitSet struct {
	Hourly  Limit
	Daily   Limit
	Monthly Limit
}

// Merge combines two limit sets period by period, keeping the most
// permissive value for each. The operation is commutative, associative
// and idempotent.
func (s LimitSet) Merge(other LimitSet) LimitSet {
	return LimitSet{
		Hourly:  s.Hourly.Max(other.Hourly),
		Daily:   s.Daily.Max(other.Daily),
		Monthly: s.Monthly.Max(other.Monthly),
	}
}

// ForPeriod returns the limit configured for the given period type.
func (s LimitSet) ForPeriod(pt PeriodType) (Limit, error) {
	switch pt {
	case PeriodTypeHourly:
		return s.Hourly, nil
	case PeriodTypeDaily:
		return s.Daily, nil
	case PeriodTypeMonthly:
		return s.Monthly, nil
	default:
		return Limit{}, fmt.Errorf("invalid period type: %s", pt)
	}
}
