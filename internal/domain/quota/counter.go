package quota

import (
	"fmt"
	"time"
)

// UsageCounter tracks the number of admitted requests for one user within
// one quota window. Exactly one counter exists per (userID, periodType,
// periodStart); rows for past windows are retained as usage history.
type UsageCounter struct {
	id           uint
	userID       uint
	periodType   PeriodType
	periodStart  time.Time
	periodEnd    time.Time
	requestCount int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUsageCounter creates a zero-count counter for the given window.
func NewUsageCounter(userID uint, periodType PeriodType, window Window) (*UsageCounter, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !periodType.IsValid() {
		return nil, fmt.Errorf("invalid period type: %s", periodType)
	}
	if !window.End.After(window.Start) {
		return nil, fmt.Errorf("window end must be after start")
	}

	now := time.Now().UTC()
	return &UsageCounter{
		userID:      userID,
		periodType:  periodType,
		periodStart: window.Start,
		periodEnd:   window.End,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructUsageCounter rebuilds a counter from persistence.
func ReconstructUsageCounter(
	id, userID uint,
	periodType string,
	periodStart, periodEnd time.Time,
	requestCount int,
	createdAt, updatedAt time.Time,
) (*UsageCounter, error) {
	if id == 0 {
		return nil, fmt.Errorf("usage counter ID cannot be zero")
	}

	pt := PeriodType(periodType)
	if !pt.IsValid() {
		return nil, fmt.Errorf("invalid period type: %s", periodType)
	}

	return &UsageCounter{
		id:           id,
		userID:       userID,
		periodType:   pt,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		requestCount: requestCount,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// ID returns the counter ID
func (c *UsageCounter) ID() uint {
	return c.id
}

// SetID sets the counter ID (for persistence layer)
func (c *UsageCounter) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("usage counter ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("usage counter ID cannot be zero")
	}
	c.id = id
	return nil
}

// UserID returns the owning user ID
func (c *UsageCounter) UserID() uint {
	return c.userID
}

// PeriodType returns the window granularity
func (c *UsageCounter) PeriodType() PeriodType {
	return c.periodType
}

// PeriodStart returns the inclusive window start
func (c *UsageCounter) PeriodStart() time.Time {
	return c.periodStart
}

// PeriodEnd returns the exclusive window end
func (c *UsageCounter) PeriodEnd() time.Time {
	return c.periodEnd
}

// RequestCount returns the number of admitted requests. A negative stored
// value is reported as zero, never rewritten.
func (c *UsageCounter) RequestCount() int {
	if c.requestCount < 0 {
		return 0
	}
	return c.requestCount
}

// CreatedAt returns the creation timestamp
func (c *UsageCounter) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the last mutation timestamp
func (c *UsageCounter) UpdatedAt() time.Time {
	return c.updatedAt
}

// Increment records one admitted request.
func (c *UsageCounter) Increment() {
	c.requestCount++
	c.updatedAt = time.Now().UTC()
}

// Remaining returns how many requests are left under the given limit.
func (c *UsageCounter) Remaining(limit Limit) Limit {
	if limit.IsUnbounded() {
		return Unbounded()
	}
	left := limit.Value() - c.RequestCount()
	if left < 0 {
		left = 0
	}
	return MustFinite(left)
}
