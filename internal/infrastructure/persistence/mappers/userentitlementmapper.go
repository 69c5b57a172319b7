package mappers

import (
	"fmt"

	"quotaguard/internal/domain/entitlement"
	"quotaguard/internal/infrastructure/persistence/models"
)

// UserEntitlementMapper handles the conversion between domain entities and
// persistence models
type UserEntitlementMapper interface {
	ToEntity(model *models.UserEntitlementModel) (*entitlement.UserEntitlement, error)
	ToModel(entity *entitlement.UserEntitlement) *models.UserEntitlementModel
	ToEntities(models []*models.UserEntitlementModel) ([]*entitlement.UserEntitlement, error)
}

type userEntitlementMapper struct{}

// NewUserEntitlementMapper creates a new user entitlement mapper
func NewUserEntitlementMapper() UserEntitlementMapper {
	return &userEntitlementMapper{}
}

func (m *userEntitlementMapper) ToEntity(model *models.UserEntitlementModel) (*entitlement.UserEntitlement, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := entitlement.ReconstructUserEntitlement(
		model.ID,
		model.UserID,
		model.Tag,
		model.Status,
		model.GrantedAt,
		model.ExpiresAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entitlement entity: %w", err)
	}

	return entity, nil
}

func (m *userEntitlementMapper) ToModel(entity *entitlement.UserEntitlement) *models.UserEntitlementModel {
	if entity == nil {
		return nil
	}

	return &models.UserEntitlementModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Tag:       entity.Tag(),
		Status:    entity.Status().String(),
		GrantedAt: entity.GrantedAt(),
		ExpiresAt: entity.ExpiresAt(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *userEntitlementMapper) ToEntities(entitlementModels []*models.UserEntitlementModel) ([]*entitlement.UserEntitlement, error) {
	entities := make([]*entitlement.UserEntitlement, 0, len(entitlementModels))

	for i, model := range entitlementModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}
