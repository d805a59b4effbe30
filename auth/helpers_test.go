package auth_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-notes-server/token"
	"github.com/jrsteele09/go-notes-server/users"
	fakeuserrepo "github.com/jrsteele09/go-notes-server/users/repofake"
)

const (
	secretStr        = "1234"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "password123"
	otherUserEmail   = "jane.doe@example.com"
)

type clock struct {
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// countingHasher records how many comparisons were made.
type countingHasher struct {
	users.BcryptHasher
	verifies atomic.Int32
}

func newCountingHasher() *countingHasher {
	return &countingHasher{BcryptHasher: users.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies.Add(1)
	return h.BcryptHasher.Verify(password, hash)
}

type failingReader struct {
	err error
}

func (r failingReader) GetByEmail(context.Context, string) (*users.User, error) {
	return nil, r.err
}

func newTestCodec(t *testing.T, secret string, clk *clock) *token.Codec {
	t.Helper()
	codec, err := token.NewHMACCodec(secret, "HS256", token.WithNowFunc(clk.Now), token.WithDefaultTTL(30*time.Minute))
	require.NoError(t, err)
	return codec
}

func seedUser(t *testing.T, repo users.UserRepo, email, password string) *users.User {
	t.Helper()
	hash, err := users.NewBcryptHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), &users.User{Email: email, PasswordHash: hash})
	require.NoError(t, err)
	return user
}

func newSeededRepo(t *testing.T) *fakeuserrepo.FakeUserRepo {
	t.Helper()
	repo := fakeuserrepo.NewFakeUserRepo()
	seedUser(t, repo, testUserEmail, testUserPassword)
	return repo
}
