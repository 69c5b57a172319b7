package quota

import "fmt"

// PeriodType represents the granularity of a quota window.
type PeriodType string

const (
	PeriodTypeHourly  PeriodType = "hourly"
	PeriodTypeDaily   PeriodType = "daily"
	PeriodTypeMonthly PeriodType = "monthly"
)

// AllPeriodTypes lists the period types in enforcement order. The order
// matters for check semantics: each period is evaluated hourly first,
// monthly last.
func AllPeriodTypes() []PeriodType {
	return []PeriodType{PeriodTypeHourly, PeriodTypeDaily, PeriodTypeMonthly}
}

// IsValid checks if the period type is valid
func (pt PeriodType) IsValid() bool {
	switch pt {
	case PeriodTypeHourly, PeriodTypeDaily, PeriodTypeMonthly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period type
func (pt PeriodType) String() string {
	return string(pt)
}

// ParsePeriodType converts caller input into a PeriodType. An unknown value
// is a caller input error, reported distinctly from storage failures.
func ParsePeriodType(s string) (PeriodType, error) {
	pt := PeriodType(s)
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid period type: %q", s)
	}
	return pt, nil
}
