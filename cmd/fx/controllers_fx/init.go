package controllers_fx

import (
	"go.uber.org/fx"
	"roadtrip/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewRoadTripController),
	fx.Provide(controllers.NewWaypointController),
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewRouteController))
