package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"roadtrip/cmd/fx/account_fx"
	"roadtrip/cmd/fx/config_fx"
	"roadtrip/cmd/fx/controllers_fx"
	"roadtrip/cmd/fx/db_fx"
	"roadtrip/cmd/fx/logger_fx"
	"roadtrip/cmd/fx/mail_fx"
	"roadtrip/cmd/fx/realtime_fx"
	"roadtrip/cmd/fx/roadtrip_fx"
	"roadtrip/cmd/fx/route_fx"
	"roadtrip/cmd/fx/session_fx"
	"roadtrip/cmd/fx/waypoint_fx"
	"roadtrip/internal/api"
	"roadtrip/internal/api/controllers"
	"roadtrip/internal/config"
	"roadtrip/internal/infra"
	"roadtrip/internal/realtime"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		roadtrip_fx.Module,
		waypoint_fx.Module,
		session_fx.Module,
		route_fx.Module,
		realtime_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(RunMigrations),
		fx.Invoke(StartServer),
	)

	app.Run()
}

type routerParams struct {
	fx.In

	Config    *config.Config
	Log       *zap.Logger
	JWT       *utils.JWTManager
	Accounts  *controllers.AccountController
	RoadTrips *controllers.RoadTripController
	Waypoints *controllers.WaypointController
	Sessions  *controllers.SessionController
	Routes    *controllers.RouteController
	Realtime  *realtime.Handler
}

func ProvideRouter(p routerParams) *gin.Engine {
	return api.NewRouter(p.Config, p.Log, p.JWT, api.Controllers{
		Accounts:  p.Accounts,
		RoadTrips: p.RoadTrips,
		Waypoints: p.Waypoints,
		Sessions:  p.Sessions,
		Routes:    p.Routes,
		Realtime:  p.Realtime,
	})
}

func RunMigrations(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.StartHook(func() error {
		version, err := infra.RunMigrations(cfg.PostgresURL)
		if err != nil {
			return err
		}
		log.Info("database schema is current", zap.Uint("version", version))
		return nil
	}))
}

// StartServer runs the HTTP listener and the expired-session sweeper until
// the app stops. Open websocket connections are closed through the gateway
// because http.Server.Shutdown does not track hijacked connections.
func StartServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	engine *gin.Engine,
	gateway *realtime.Gateway,
	sweeper *services.SessionSweeper,
) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				cancel()
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))

			group.Go(func() error {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			group.Go(func() error {
				return sweeper.Run(gctx)
			})
			go func() {
				<-gctx.Done()
				if ctx.Err() == nil {
					log.Error("background worker failed, shutting down")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info("stopping HTTP server")
			err := srv.Shutdown(stopCtx)
			gateway.Shutdown()
			cancel()
			if werr := group.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
				log.Error("background worker exited with error", zap.Error(werr))
			}
			return err
		},
	})
}
