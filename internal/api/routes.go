package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"roadtrip/internal/api/controllers"
	"roadtrip/internal/config"
	"roadtrip/internal/realtime"
	"roadtrip/pkg/middleware"
	"roadtrip/pkg/utils"
)

type Controllers struct {
	Accounts  *controllers.AccountController
	RoadTrips *controllers.RoadTripController
	Waypoints *controllers.WaypointController
	Sessions  *controllers.SessionController
	Routes    *controllers.RouteController
	Realtime  *realtime.Handler
}

func NewRouter(cfg *config.Config, log *zap.Logger, jwt *utils.JWTManager, ctl Controllers) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	RegisterRoutes(r, jwt, ctl)
	return r
}

func RegisterRoutes(r *gin.Engine, jwt *utils.JWTManager, ctl Controllers) {
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ws", ctl.Realtime.ServeWS)

	api := r.Group("/api")

	accounts := api.Group("/accounts")
	accounts.POST("/register", ctl.Accounts.Register)
	accounts.POST("/login", ctl.Accounts.Login)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(jwt))

	authed.GET("/accounts/me", ctl.Accounts.Me)

	trips := authed.Group("/roadtrips")
	trips.POST("", ctl.RoadTrips.CreateRoadTrip)
	trips.GET("", ctl.RoadTrips.ListRoadTrips)
	trips.GET("/:id", ctl.RoadTrips.GetRoadTrip)
	trips.PUT("/:id", ctl.RoadTrips.UpdateRoadTrip)
	trips.DELETE("/:id", ctl.RoadTrips.DeleteRoadTrip)
	trips.POST("/:id/members", ctl.RoadTrips.AddMember)
	trips.DELETE("/:id/members/:memberId", ctl.RoadTrips.RemoveMember)

	trips.GET("/:id/waypoints", ctl.Waypoints.ListWaypoints)
	trips.POST("/:id/waypoints", ctl.Waypoints.AddWaypoint)
	trips.POST("/:id/waypoints/normalize", ctl.Waypoints.NormalizeWaypoints)
	trips.PUT("/:id/waypoints/:waypointId", ctl.Waypoints.UpdateWaypoint)
	trips.PUT("/:id/waypoints/:waypointId/order", ctl.Waypoints.ReorderWaypoint)
	trips.DELETE("/:id/waypoints/:waypointId", ctl.Waypoints.RemoveWaypoint)

	trips.GET("/:id/route", ctl.Routes.GetRoute)

	trips.POST("/:id/sessions", ctl.Sessions.CreateSession)
	trips.GET("/:id/sessions/active", ctl.Sessions.GetActiveSession)

	sessions := authed.Group("/sessions")
	sessions.GET("/user/active", ctl.Sessions.GetUserActiveSessions)
	sessions.POST("/cleanup", ctl.Sessions.CleanupExpiredSessions)
	sessions.GET("/:sessionId", ctl.Sessions.GetSession)
	sessions.PATCH("/:sessionId/extend", ctl.Sessions.ExtendSession)
	sessions.DELETE("/:sessionId", ctl.Sessions.EndSession)
	sessions.GET("/:sessionId/participants", ctl.Sessions.GetParticipants)
}
