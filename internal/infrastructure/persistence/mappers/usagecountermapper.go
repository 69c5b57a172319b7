package mappers

import (
	"fmt"

	"quotaguard/internal/domain/quota"
	"quotaguard/internal/infrastructure/persistence/models"
)

// UsageCounterMapper handles the conversion between domain entities and
// persistence models
type UsageCounterMapper interface {
	ToEntity(model *models.UsageCounterModel) (*quota.UsageCounter, error)
	ToModel(entity *quota.UsageCounter) *models.UsageCounterModel
	ToEntities(models []*models.UsageCounterModel) ([]*quota.UsageCounter, error)
}

type usageCounterMapper struct{}

// NewUsageCounterMapper creates a new usage counter mapper
func NewUsageCounterMapper() UsageCounterMapper {
	return &usageCounterMapper{}
}

func (m *usageCounterMapper) ToEntity(model *models.UsageCounterModel) (*quota.UsageCounter, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := quota.ReconstructUsageCounter(
		model.ID,
		model.UserID,
		model.PeriodType,
		model.PeriodStart,
		model.PeriodEnd,
		model.RequestCount,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct usage counter entity: %w", err)
	}

	return entity, nil
}

func (m *usageCounterMapper) ToModel(entity *quota.UsageCounter) *models.UsageCounterModel {
	if entity == nil {
		return nil
	}

	return &models.UsageCounterModel{
		ID:           entity.ID(),
		UserID:       entity.UserID(),
		PeriodType:   entity.PeriodType().String(),
		PeriodStart:  entity.PeriodStart(),
		PeriodEnd:    entity.PeriodEnd(),
		RequestCount: entity.RequestCount(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *usageCounterMapper) ToEntities(counterModels []*models.UsageCounterModel) ([]*quota.UsageCounter, error) {
	entities := make([]*quota.UsageCounter, 0, len(counterModels))

	for i, model := range counterModels {
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
