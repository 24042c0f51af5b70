package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"roadtrip/internal/config"
	"roadtrip/internal/repositories"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideJWTManager)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(accountRepo repositories.AccountRepository, jwt *utils.JWTManager, log *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, jwt, log)
}
