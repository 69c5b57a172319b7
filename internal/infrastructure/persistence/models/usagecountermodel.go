package models

import "time"

// UsageCounterModel represents the database persistence model for quota
// usage counters. This is the anti-corruption layer between domain and
// database. The composite unique index on (user_id, period_type,
// period_start) is the sole mechanism that serializes concurrent
// insert-or-increment races for the same window; application code never
// resolves that race itself.
type UsageCounterModel struct {
	ID           uint      `gorm:"primarykey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_period_window,priority:1;index:idx_user_period,priority:1"`
	PeriodType   string    `gorm:"not null;size:10;uniqueIndex:idx_user_period_window,priority:2;index:idx_user_period,priority:2"`
	PeriodStart  time.Time `gorm:"not null;uniqueIndex:idx_user_period_window,priority:3"`
	PeriodEnd    time.Time `gorm:"not null"`
	RequestCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (UsageCounterModel) TableName() string {
	return "usage_counters"
}
