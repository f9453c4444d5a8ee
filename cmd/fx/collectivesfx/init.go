package collectivesfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"fundly/internal/repositories"
	"fundly/internal/services"
)

var Module = fx.Provide(
	provideCollectiveRepo, provideTierRepo, provideCollectiveService)

func provideCollectiveRepo(db *gorm.DB) repositories.CollectiveRepositoryInterface {
	return repositories.NewCollectiveRepository(db)
}

func provideTierRepo(db *gorm.DB) repositories.TierRepositoryInterface {
	return repositories.NewTierRepository(db)
}

func provideCollectiveService(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	tierRepo repositories.TierRepositoryInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	guard services.CapacityGuardInterface,
) services.CollectiveServiceInterface {
	return services.NewCollectiveService(collectiveRepo, tierRepo, activityRepo, guard)
}
