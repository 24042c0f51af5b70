package route_fx

import (
	"context"

	"go.uber.org/fx"
	"roadtrip/internal/config"
	"roadtrip/internal/services"
)

var Module = fx.Provide(
	provideDirectionsClient,
	services.NewRouteService)

// The cache janitor only runs while the app is up.
func provideDirectionsClient(lc fx.Lifecycle, cfg *config.Config) services.RouteComputer {
	client := services.NewMapboxDirectionsClient(cfg)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go client.Cache.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			client.Cache.Stop()
			return nil
		},
	})
	return client
}
