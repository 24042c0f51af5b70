package infra

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"roadtrip/internal/config"
)

// NewLogger builds the process-wide zap logger. Development mode gets the console encoder.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build(zap.Fields(zap.String("env", cfg.Env)))
}
