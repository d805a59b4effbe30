package errors_test

import (
	"fmt"
	"testing"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, apperrors.Wrapf(nil, "context %d", 1))
	})

	t.Run("keeps chain", func(t *testing.T) {
		err := apperrors.Wrapf(apperrors.ErrUserNotFound, "lookup %s", "a@x.com")
		require.EqualError(t, err, "lookup a@x.com: user not found")
		require.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
	})
}

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("boot: %w", apperrors.NewConfigurationError("SECRET_KEY", "is not set"))

	var cfgErr *apperrors.ConfigurationError
	require.True(t, apperrors.As(err, &cfgErr))
	require.Equal(t, "SECRET_KEY", cfgErr.Setting)
	require.Contains(t, err.Error(), "SECRET_KEY is not set")
}
