package session_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"roadtrip/internal/repositories"
	"roadtrip/internal/services"
)

var Module = fx.Provide(
	provideSessionRepo,
	services.NewSessionService,
	services.NewSessionSweeper)

func provideSessionRepo(db *gorm.DB) repositories.SessionRepository {
	return repositories.NewSessionRepository(db)
}
