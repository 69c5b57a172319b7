package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserEntitlementModel represents the database persistence model for
// entitlement grants. One row per (user, tag) active grant; revoked and
// expired grants are kept for audit.
type UserEntitlementModel struct {
	ID        uint       `gorm:"primarykey"`
	UserID    uint       `gorm:"not null;index:idx_user_status,priority:1"`
	Tag       string     `gorm:"not null;size:50;index"`
	Status    string     `gorm:"not null;size:20;default:active;index:idx_user_status,priority:2"`
	GrantedAt time.Time  `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
	Metadata  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserEntitlementModel) TableName() string {
	return "user_entitlements"
}
