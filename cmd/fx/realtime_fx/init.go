package realtime_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"roadtrip/internal/config"
	"roadtrip/internal/realtime"
	"roadtrip/internal/services"
)

var Module = fx.Provide(
	provideGateway,
	realtime.NewHandler)

func provideGateway(sessions services.SessionServiceInterface, cfg *config.Config, log *zap.Logger) *realtime.Gateway {
	return realtime.NewGateway(sessions, realtime.Options{
		ReplayPresence:  cfg.ReplayPresence,
		EvictEmptyRooms: cfg.EvictEmptyRooms,
	}, log)
}
