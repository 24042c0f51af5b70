package config_fx

import (
	"go.uber.org/fx"
	"roadtrip/internal/config"
)

var Module = fx.Provide(config.Load)
