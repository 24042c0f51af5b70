package roadtrip_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"roadtrip/internal/repositories"
	"roadtrip/internal/services"
)

var Module = fx.Provide(
	provideRoadTripRepo, provideRoadTripService)

func provideRoadTripRepo(db *gorm.DB) repositories.RoadTripRepository {
	return repositories.NewRoadTripRepository(db)
}

func provideRoadTripService(
	tripRepo repositories.RoadTripRepository,
	accountRepo repositories.AccountRepository,
	mail services.IMailService,
	log *zap.Logger,
) services.RoadTripServiceInterface {
	return services.NewRoadTripService(tripRepo, accountRepo, mail, log)
}
