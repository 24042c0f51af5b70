package logger_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"roadtrip/internal/config"
	"roadtrip/internal/infra"
)

var Module = fx.Options(
	fx.Provide(infra.NewLogger),
	fx.Invoke(registerSync))

func registerSync(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config) {
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	log.Info("logger ready", zap.String("env", cfg.Env), zap.String("level", cfg.LogLevel))
}
