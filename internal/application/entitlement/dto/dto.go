// Package dto defines the request and response shapes of the entitlement
// application layer.
package dto

import (
	"time"

	"quotaguard/internal/domain/entitlement"
)

// GrantEntitlementRequest represents the request to grant a tier tag to a
// user. GrantedAt defaults to now when omitted.
type GrantEntitlementRequest struct {
	Tag       string     `json:"tag" binding:"required"`
	GrantedAt *time.Time `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// EntitlementResponse represents one grant in API responses.
type EntitlementResponse struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Tag       string     `json:"tag"`
	Status    string     `json:"status"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewEntitlementResponse builds a response from a grant entity
func NewEntitlementResponse(ent *entitlement.UserEntitlement) *EntitlementResponse {
	return &EntitlementResponse{
		ID:        ent.ID(),
		UserID:    ent.UserID(),
		Tag:       ent.Tag(),
		Status:    ent.Status().String(),
		GrantedAt: ent.GrantedAt(),
		ExpiresAt: ent.ExpiresAt(),
	}
}
