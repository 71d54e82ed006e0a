package service

import (
	"context"
	"errors"
	"testing"

	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUserRepo()
	s := NewAuthService(config.Config{}, users)
	ctx := context.Background()

	id, err := s.Register(ctx, &transfer.RegisterRequest{Name: "Ada", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)

	stored := users.users[id]
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Equal(t, models.ProviderCredentials, stored.Provider)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	_, err = s.Register(ctx, &transfer.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrConflict))

	user, err := s.Login(ctx, &transfer.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = s.Login(ctx, &transfer.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = s.Login(ctx, &transfer.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRegisterValidation(t *testing.T) {
	s := NewAuthService(config.Config{}, newMemUserRepo())
	ctx := context.Background()

	_, err := s.Register(ctx, &transfer.RegisterRequest{Email: "a@b.c", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Missing fields", err.Error())

	_, err = s.Register(ctx, &transfer.RegisterRequest{Name: "A", Email: "a@b.c", Password: "12345"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestGoogleAuthURLCarriesState(t *testing.T) {
	s := NewAuthService(config.Config{
		GoogleClientID:    "client",
		GoogleRedirectURI: "http://localhost:3000/login/callback",
	}, newMemUserRepo())

	url := s.GoogleAuthURL("xyz")
	assert.Contains(t, url, "state=xyz")
	assert.Contains(t, url, "client_id=client")
}
