// Package dto defines the request and response shapes of the quota
// application layer.
package dto

import (
	"encoding/json"
	"time"

	"quotaguard/internal/domain/quota"
)

// LimitValue marshals a quota limit as a JSON number, or the string
// "unlimited" for the unbounded variant. The sentinel never leaks past the
// serialization boundary.
type LimitValue struct {
	limit quota.Limit
}

// NewLimitValue wraps a domain limit for serialization
func NewLimitValue(l quota.Limit) LimitValue {
	return LimitValue{limit: l}
}

// IsUnlimited reports whether the wrapped limit is unbounded
func (v LimitValue) IsUnlimited() bool {
	return v.limit.IsUnbounded()
}

// Value returns the finite limit value; zero for the unbounded variant
func (v LimitValue) Value() int {
	if v.limit.IsUnbounded() {
		return 0
	}
	return v.limit.Value()
}

// MarshalJSON implements json.Marshaler
func (v LimitValue) MarshalJSON() ([]byte, error) {
	if v.limit.IsUnbounded() {
		return json.Marshal("unlimited")
	}
	return json.Marshal(v.limit.Value())
}

// LimitTripleResponse reports one value per quota period.
type LimitTripleResponse struct {
	Hourly  LimitValue `json:"hourly"`
	Daily   LimitValue `json:"daily"`
	Monthly LimitValue `json:"monthly"`
}

// NewLimitTripleResponse converts a domain limit set
func NewLimitTripleResponse(s quota.LimitSet) LimitTripleResponse {
	return LimitTripleResponse{
		Hourly:  NewLimitValue(s.Hourly),
		Daily:   NewLimitValue(s.Daily),
		Monthly: NewLimitValue(s.Monthly),
	}
}

// CheckQuotaRequest asks whether one request for the user is admitted.
type CheckQuotaRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	// DryRun computes the outcome without consuming quota.
	DryRun bool `json:"dry_run"`
}

// CheckQuotaResponse is the outcome of one quota check.
type CheckQuotaResponse struct {
	UserID    uint                `json:"user_id"`
	Allowed   bool                `json:"allowed"`
	Remaining LimitTripleResponse `json:"remaining"`
}

// QuotaStatusResponse reports the user's effective limits and current usage
// without consuming quota.
type QuotaStatusResponse struct {
	UserID    uint                `json:"user_id"`
	Tags      []string            `json:"tags"`
	Limits    LimitTripleResponse `json:"limits"`
	Remaining LimitTripleResponse `json:"remaining"`
}

// UsageHistoryEntry is one counted window.
type UsageHistoryEntry struct {
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	RequestCount int       `json:"request_count"`
}

// UsageHistoryResponse lists counted windows, most recent first.
type UsageHistoryResponse struct {
	UserID     uint                `json:"user_id"`
	PeriodType string              `json:"period_type"`
	Entries    []UsageHistoryEntry `json:"entries"`
}
