package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-notes-server/auth"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	hasher := newCountingHasher()
	authenticator, err := auth.NewAuthenticator(newSeededRepo(t), hasher)
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := authenticator.Authenticate(ctx, testUserEmail, testUserPassword)
		require.NoError(t, err)
		require.Equal(t, testUserEmail, user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		user, err := authenticator.Authenticate(ctx, testUserEmail, "wrong-password")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.Nil(t, user)
	})

	t.Run("unknown email still compares a hash", func(t *testing.T) {
		before := hasher.verifies.Load()
		user, err := authenticator.Authenticate(ctx, "nobody@example.com", testUserPassword)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.Nil(t, user)
		require.Equal(t, before+1, hasher.verifies.Load())
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, testUserEmail, "")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthenticator_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	authenticator, err := auth.NewAuthenticator(failingReader{err: storeErr}, newCountingHasher())
	require.NoError(t, err)

	_, err = authenticator.Authenticate(context.Background(), testUserEmail, testUserPassword)
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestNewAuthenticator_RequiresDependencies(t *testing.T) {
	_, err := auth.NewAuthenticator(nil, newCountingHasher())
	require.Error(t, err)

	_, err = auth.NewAuthenticator(newSeededRepo(t), nil)
	require.Error(t, err)
}
