package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"roadtrip/internal/models/db_models"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*response_models.AccountResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	jwt         *utils.JWTManager
	log         *zap.Logger
}

func NewAccountService(accountRepo repositories.AccountRepository, jwt *utils.JWTManager, log *zap.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		jwt:         jwt,
		log:         log.Named("accounts"),
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, dbError(err)
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.jwt.CreateToken(account.ID, account.Name, account.AvatarURL)
	if err != nil {
		a.log.Error("sign token", zap.Error(err))
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token:   token,
		Account: response_models.ToAccountResponse(account),
	}, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, dbError(err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		AvatarURL:    request.AvatarURL,
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, dbError(err)
	}

	a.log.Info("account created", zap.String("account_id", newAccount.ID.String()))
	resp := response_models.ToAccountResponse(newAccount)
	return &resp, nil
}

func (a *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if account == nil {
		return nil, utils.ErrUserNotFound
	}
	resp := response_models.ToAccountResponse(account)
	return &resp, nil
}
