package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, RegisterInput{
		Email:       "alice@x.com",
		Username:    "alice",
		DisplayName: "Alice",
		Password:    "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", resp.User.Handle)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "Sup3rSecret", resp.User.PasswordHash)

	// Token subject is the handle.
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-jwt-secret"), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", sub)

	login, err := f.auth.Login(ctx, LoginInput{Email: "alice@x.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	_, err = f.auth.Login(ctx, LoginInput{Email: "alice@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRegisterUniqueness(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{
		Email:    "alice@x.com",
		Username: "alice",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, RegisterInput{
		Email:    "alice@x.com",
		Username: "alice2",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Register(ctx, RegisterInput{
		Email:    "alice2@x.com",
		Username: "alice",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
