package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-notes-server/auth"
	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
	"github.com/jrsteele09/go-notes-server/token"
)

type resolverFixture struct {
	clock    *clock
	codec    *token.Codec
	registry *token.InMemoryRegistry
	resolver *auth.Resolver
}

func newResolverFixture(t *testing.T, options ...auth.ResolverOption) *resolverFixture {
	t.Helper()
	clk := newClock()
	codec := newTestCodec(t, secretStr, clk)
	registry := token.NewInMemoryRegistry()
	resolver, err := auth.NewResolver(codec, registry, newSeededRepo(t), options...)
	require.NoError(t, err)
	return &resolverFixture{
		clock:    clk,
		codec:    codec,
		registry: registry,
		resolver: resolver,
	}
}

func requireAuthKind(t *testing.T, err error, kind auth.AuthErrorKind) {
	t.Helper()
	require.Error(t, err)
	var authErr *auth.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %T: %v", err, err)
	require.Equal(t, kind, authErr.Kind)
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)

	raw, err := f.codec.IssueDefault(testUserEmail)
	require.NoError(t, err)

	session, err := f.resolver.Resolve(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, testUserEmail, session.User.Email)
	require.Equal(t, raw, session.Token)
	require.Equal(t, testUserEmail, session.Claims.Subject)
}

func TestResolver_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked", func(t *testing.T) {
		f := newResolverFixture(t)
		raw, err := f.codec.IssueDefault(testUserEmail)
		require.NoError(t, err)
		require.NoError(t, f.registry.Revoke(ctx, raw))

		_, err = f.resolver.Resolve(ctx, raw)
		requireAuthKind(t, err, auth.Invalidated)
		require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("revoked takes precedence over expiry", func(t *testing.T) {
		f := newResolverFixture(t)
		raw, err := f.codec.Issue(testUserEmail, time.Minute)
		require.NoError(t, err)
		require.NoError(t, f.registry.Revoke(ctx, raw))
		f.clock.Advance(time.Hour)

		_, err = f.resolver.Resolve(ctx, raw)
		requireAuthKind(t, err, auth.Invalidated)
	})

	t.Run("expired", func(t *testing.T) {
		f := newResolverFixture(t)
		raw, err := f.codec.Issue(testUserEmail, 0)
		require.NoError(t, err)
		f.clock.Advance(time.Second)

		_, err = f.resolver.Resolve(ctx, raw)
		requireAuthKind(t, err, auth.Expired)
	})

	t.Run("foreign secret", func(t *testing.T) {
		f := newResolverFixture(t)
		foreign := newTestCodec(t, "another-secret", f.clock)
		raw, err := foreign.IssueDefault(testUserEmail)
		require.NoError(t, err)

		_, err = f.resolver.Resolve(ctx, raw)
		requireAuthKind(t, err, auth.BadSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		f := newResolverFixture(t)
		_, err := f.resolver.Resolve(ctx, "definitely.not.ajwt")
		requireAuthKind(t, err, auth.Malformed)
	})

	t.Run("unknown subject", func(t *testing.T) {
		f := newResolverFixture(t)
		raw, err := f.codec.IssueDefault("ghost@example.com")
		require.NoError(t, err)

		_, err = f.resolver.Resolve(ctx, raw)
		requireAuthKind(t, err, auth.UnknownSubject)
	})
}

func TestResolver_StoreFailurePropagates(t *testing.T) {
	clk := newClock()
	codec := newTestCodec(t, secretStr, clk)
	storeErr := errors.New("connection refused")
	resolver, err := auth.NewResolver(codec, token.NewInMemoryRegistry(), failingReader{err: storeErr})
	require.NoError(t, err)

	raw, err := codec.IssueDefault(testUserEmail)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), raw)
	require.ErrorIs(t, err, storeErr)
	var authErr *auth.AuthError
	require.False(t, errors.As(err, &authErr))
}

func TestResolver_LogoutPresented(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)

	raw, err := f.codec.IssueDefault(testUserEmail)
	require.NoError(t, err)
	session, err := f.resolver.Resolve(ctx, raw)
	require.NoError(t, err)

	require.NoError(t, f.resolver.Logout(ctx, session))
	require.Equal(t, 1, f.registry.Len())

	_, err = f.resolver.Resolve(ctx, raw)
	requireAuthKind(t, err, auth.Invalidated)

	// Logging out twice leaves the registry unchanged.
	require.NoError(t, f.resolver.Logout(ctx, session))
	require.Equal(t, 1, f.registry.Len())
}

func TestResolver_LogoutReissued(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, auth.WithLogoutMode(auth.LogoutReissued))

	raw, err := f.codec.IssueDefault(testUserEmail)
	require.NoError(t, err)
	session, err := f.resolver.Resolve(ctx, raw)
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	require.NoError(t, f.resolver.Logout(ctx, session))
	require.Equal(t, 1, f.registry.Len())

	revoked, err := f.registry.IsRevoked(ctx, raw)
	require.NoError(t, err)
	require.False(t, revoked)

	_, err = f.resolver.Resolve(ctx, raw)
	require.NoError(t, err)
}

func TestResolver_LogoutRequiresSession(t *testing.T) {
	f := newResolverFixture(t)
	require.Error(t, f.resolver.Logout(context.Background(), nil))
}

func TestNewResolver_InvalidLogoutMode(t *testing.T) {
	clk := newClock()
	_, err := auth.NewResolver(newTestCodec(t, secretStr, clk), token.NewInMemoryRegistry(), newSeededRepo(t),
		auth.WithLogoutMode("sometimes"))
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "LOGOUT_MODE", cfgErr.Setting)
}

func TestParseLogoutMode(t *testing.T) {
	mode, err := auth.ParseLogoutMode("")
	require.NoError(t, err)
	require.Equal(t, auth.LogoutPresented, mode)

	mode, err = auth.ParseLogoutMode("reissued")
	require.NoError(t, err)
	require.Equal(t, auth.LogoutReissued, mode)

	_, err = auth.ParseLogoutMode("never")
	require.Error(t, err)
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// respell flips the lowest bit of the final character; for HS256 that bit is
// padding and the decoded signature bytes are unchanged.
func respell(t *testing.T, raw string) string {
	t.Helper()
	idx := strings.IndexByte(base64URLAlphabet, raw[len(raw)-1])
	require.GreaterOrEqual(t, idx, 0)
	return raw[:len(raw)-1] + string(base64URLAlphabet[idx^1])
}

func TestResolver_LoggedOutTokenCannotBeRespelled(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)

	raw, err := f.codec.IssueDefault(testUserEmail)
	require.NoError(t, err)
	session, err := f.resolver.Resolve(ctx, raw)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Logout(ctx, session))

	_, err = f.resolver.Resolve(ctx, raw)
	requireAuthKind(t, err, auth.Invalidated)

	variant := respell(t, raw)
	require.NotEqual(t, raw, variant)
	revoked, err := f.registry.IsRevoked(ctx, variant)
	require.NoError(t, err)
	require.False(t, revoked)

	session, err = f.resolver.Resolve(ctx, variant)
	require.Nil(t, session)
	requireAuthKind(t, err, auth.Malformed)
}
