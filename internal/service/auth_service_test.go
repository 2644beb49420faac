package service

import (
	"context"
	"testing"
	"time"

	"academic-ai-be/internal/config"
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(factory *fakeUowFactory) IAuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenLifetime = time.Hour
	return NewAuthService(factory, cfg, nil, nopLogger{})
}

func TestRegisterHashesPassword(t *testing.T) {
	factory := newFakeUowFactory()
	svc := newTestAuthService(factory)

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, string(entity.UserStatusActive), user.Status)

	require.Len(t, factory.uow.users.created, 1)
	created := factory.uow.users.created[0]
	require.NotNil(t, created.PasswordHash)
	assert.NotEqual(t, "correct horse battery", *created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("correct horse battery")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	factory := newFakeUowFactory()
	svc := newTestAuthService(factory)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@example.com",
		Password: "another password",
		FullName: "Someone Else",
	})
	assert.EqualError(t, err, "email already registered")
}

func TestLoginIssuesToken(t *testing.T) {
	factory := newFakeUowFactory()
	svc := newTestAuthService(factory)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.Id, resp.User.Id)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, registered.Id.String(), claims["user_id"])
}

func TestLoginWrongPassword(t *testing.T) {
	factory := newFakeUowFactory()
	svc := newTestAuthService(factory)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong password",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUowFactory())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.EqualError(t, err, "invalid credentials")
}
