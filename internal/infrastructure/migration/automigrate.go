package migration

import (
	"quotaguard/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UsageCounterModel{},
		&models.UserEntitlementModel{},
	}
}
