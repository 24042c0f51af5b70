package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"roadtrip/internal/models/request_models"
	"roadtrip/pkg/utils"
)

func parseID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse id %q: %v", s, err)
	}
	return id
}

func TestRegisterLoginAndMe(t *testing.T) {
	f := newFixture(t)
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	svc := NewAccountService(f.accounts, jwtManager, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, request_models.SignUpRequest{
		DisplayName: "Grace",
		Email:       " Grace@Example.com ",
		Password:    "correct-horse",
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, "grace@example.com", created.Email)

	_, err = svc.CreateAccount(ctx, request_models.SignUpRequest{
		DisplayName: "Grace again",
		Email:       "grace@example.com",
		Password:    "correct-horse",
	})
	assert.Equal(t, true, errors.Is(err, utils.ErrEmailAlreadyExists))

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "grace@example.com", Password: "wrong-horse"})
	assert.Equal(t, true, errors.Is(err, utils.ErrInvalidCredentials))

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.Equal(t, true, errors.Is(err, utils.ErrInvalidCredentials))

	login, err := svc.Login(ctx, request_models.LoginRequest{Email: "GRACE@example.com", Password: "correct-horse"})
	assert.Equal(t, nil, err)

	claims, err := jwtManager.ValidateToken(login.Token)
	assert.Equal(t, nil, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "Grace", claims.DisplayName)

	me, err := svc.GetAccount(ctx, parseID(t, claims.UserID))
	assert.Equal(t, nil, err)
	assert.Equal(t, "Grace", me.Name)

	_, err = svc.GetAccount(ctx, uuid.New())
	assert.Equal(t, true, errors.Is(err, utils.ErrUserNotFound))
}
