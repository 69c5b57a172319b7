// Package entitlement provides the domain model for subscription
// entitlements: which tier tags a user holds and when their subscription
// began. The quota engine consumes this package through the Source
// interface; the billing side that grants tags lives behind it.
package entitlement

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of an entitlement grant.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusRevoked:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// UserEntitlement is one tier tag granted to a user. A user may hold several
// grants at once (e.g. a paid tier plus a promotional one); the quota
// resolver merges them.
type UserEntitlement struct {
	id        uint
	userID    uint
	tag       string
	status    Status
	grantedAt time.Time
	expiresAt *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewUserEntitlement creates an active grant of the given tag.
func NewUserEntitlement(userID uint, tag string, grantedAt time.Time, expiresAt *time.Time) (*UserEntitlement, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if tag == "" {
		return nil, fmt.Errorf("entitlement tag is required")
	}
	if expiresAt != nil && !expiresAt.After(grantedAt) {
		return nil, fmt.Errorf("expiry must be after grant time")
	}

	now := time.Now().UTC()
	return &UserEntitlement{
		userID:    userID,
		tag:       tag,
		status:    StatusActive,
		grantedAt: grantedAt.UTC(),
		expiresAt: expiresAt,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUserEntitlement rebuilds a grant from persistence.
func ReconstructUserEntitlement(
	id, userID uint,
	tag string,
	status string,
	grantedAt time.Time,
	expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) (*UserEntitlement, error) {
	if id == 0 {
		return nil, fmt.Errorf("entitlement ID cannot be zero")
	}

	st := Status(status)
	if !st.IsValid() {
		return nil, fmt.Errorf("invalid entitlement status: %s", status)
	}

	return &UserEntitlement{
		id:        id,
		userID:    userID,
		tag:       tag,
		status:    st,
		grantedAt: grantedAt,
		expiresAt: expiresAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the entitlement ID
func (e *UserEntitlement) ID() uint {
	return e.id
}

// SetID sets the entitlement ID (for persistence layer)
func (e *UserEntitlement) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("entitlement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entitlement ID cannot be zero")
	}
	e.id = id
	return nil
}

// UserID returns the owning user ID
func (e *UserEntitlement) UserID() uint {
	return e.userID
}

// Tag returns the tier tag
func (e *UserEntitlement) Tag() string {
	return e.tag
}

// Status returns the grant status
func (e *UserEntitlement) Status() Status {
	return e.status
}

// GrantedAt returns when the grant took effect
func (e *UserEntitlement) GrantedAt() time.Time {
	return e.grantedAt
}

// ExpiresAt returns the optional expiry time
func (e *UserEntitlement) ExpiresAt() *time.Time {
	return e.expiresAt
}

// CreatedAt returns the creation timestamp
func (e *UserEntitlement) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns the last mutation timestamp
func (e *UserEntitlement) UpdatedAt() time.Time {
	return e.updatedAt
}

// IsActive reports whether the grant currently applies.
func (e *UserEntitlement) IsActive(now time.Time) bool {
	if e.status != StatusActive {
		return false
	}
	if e.expiresAt != nil && !now.Before(*e.expiresAt) {
		return false
	}
	return true
}

// Revoke marks the grant as revoked.
func (e *UserEntitlement) Revoke() error {
	if e.status == StatusRevoked {
		return fmt.Errorf("entitlement is already revoked")
	}
	e.status = StatusRevoked
	e.updatedAt = time.Now().UTC()
	return nil
}
