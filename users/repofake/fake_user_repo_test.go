package fakeuserrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-notes-server/users"
	fakeuserrepo "github.com/jrsteele09/go-notes-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	created, err := repo.Create(ctx, &users.User{Email: "a@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = repo.Create(ctx, &users.User{Email: "a@x.com"})
	require.ErrorIs(t, err, users.ErrEmailExists)

	_, err = repo.GetByEmail(ctx, "b@x.com")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestFakeUserRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := repo.Create(ctx, &users.User{Email: email})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)

	empty, err := repo.List(ctx, 10, 5)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestFakeStore_WithTx(t *testing.T) {
	ctx := context.Background()
	store := fakeuserrepo.NewFakeStore()

	t.Run("commit on success", func(t *testing.T) {
		err := store.WithTx(ctx, func(ctx context.Context, repo users.UserRepo) error {
			_, err := repo.Create(ctx, &users.User{Email: "a@x.com"})
			if err != nil {
				return err
			}
			_, err = repo.GetByEmail(ctx, "a@x.com")
			return err
		})
		require.NoError(t, err)

		_, err = store.Users().GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := store.WithTx(ctx, func(ctx context.Context, repo users.UserRepo) error {
			if _, err := repo.Create(ctx, &users.User{Email: "b@x.com"}); err != nil {
				return err
			}
			return errors.New("later step failed")
		})
		require.Error(t, err)

		_, err = store.Users().GetByEmail(ctx, "b@x.com")
		require.ErrorIs(t, err, users.ErrUserNotFound)
	})

	t.Run("duplicate inside tx", func(t *testing.T) {
		err := store.WithTx(ctx, func(ctx context.Context, repo users.UserRepo) error {
			_, err := repo.Create(ctx, &users.User{Email: "a@x.com"})
			return err
		})
		require.ErrorIs(t, err, users.ErrEmailExists)
	})
}
