package waypoint_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"roadtrip/internal/repositories"
	"roadtrip/internal/services"
)

var Module = fx.Provide(
	provideWaypointRepo, provideWaypointService)

func provideWaypointRepo(db *gorm.DB) repositories.WaypointRepository {
	return repositories.NewWaypointRepository(db)
}

func provideWaypointService(tripRepo repositories.RoadTripRepository, waypointRepo repositories.WaypointRepository, log *zap.Logger) services.WaypointServiceInterface {
	return services.NewWaypointService(tripRepo, waypointRepo, log)
}
