package mail_fx

import (
	"go.uber.org/fx"
	"roadtrip/internal/services"
)

var Module = fx.Provide(services.NewMailService)
