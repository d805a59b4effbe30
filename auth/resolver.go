package auth

import (
	"context"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
	"github.com/jrsteele09/go-notes-server/token"
	"github.com/jrsteele09/go-notes-server/users"
)

// LogoutMode selects which token Logout places in the registry.
type LogoutMode string

const (
	// LogoutPresented revokes the token the client authenticated with.
	LogoutPresented LogoutMode = "presented"
	// LogoutReissued mints a fresh token for the subject and revokes that
	// one. The presented token stays valid until it expires.
	LogoutReissued LogoutMode = "reissued"
)

func ParseLogoutMode(s string) (LogoutMode, error) {
	switch LogoutMode(s) {
	case "", LogoutPresented:
		return LogoutPresented, nil
	case LogoutReissued:
		return LogoutReissued, nil
	}
	return "", apperrors.NewConfigurationError("LOGOUT_MODE", "must be presented or reissued, got "+s)
}

// Session is an authenticated request context: the user, the exact token
// string that was presented and its decoded claims.
type Session struct {
	User   *users.User
	Token  string
	Claims *token.Claims
}

// Resolver turns a presented bearer token into a Session.
type Resolver struct {
	codec      *token.Codec
	registry   token.Registry
	users      users.Reader
	logoutMode LogoutMode
}

type ResolverOption func(*Resolver)

func WithLogoutMode(mode LogoutMode) ResolverOption {
	return func(r *Resolver) {
		r.logoutMode = mode
	}
}

func NewResolver(codec *token.Codec, registry token.Registry, reader users.Reader, options ...ResolverOption) (*Resolver, error) {
	if codec == nil {
		return nil, errors.New("[NewResolver] codec is required")
	}
	if registry == nil {
		return nil, errors.New("[NewResolver] registry is required")
	}
	if reader == nil {
		return nil, errors.New("[NewResolver] user reader is required")
	}
	r := &Resolver{
		codec:      codec,
		registry:   registry,
		users:      reader,
		logoutMode: LogoutPresented,
	}
	for _, opt := range options {
		opt(r)
	}
	if _, err := ParseLogoutMode(string(r.logoutMode)); err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve checks, in order, revocation, signature and structure, expiry and
// finally that the subject still exists. Rejections are *AuthError; store and
// registry failures are returned wrapped.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Session, error) {
	revoked, err := r.registry.IsRevoked(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] registry.IsRevoked")
	}
	if revoked {
		return nil, newAuthError(Invalidated, apperrors.ErrTokenRevoked)
	}

	claims, err := r.codec.Decode(raw)
	if err != nil {
		return nil, fromDecodeError(err)
	}

	user, err := r.users.GetByEmail(ctx, claims.Subject)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, newAuthError(UnknownSubject, err)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] GetByEmail")
	}

	return &Session{
		User:   user,
		Token:  raw,
		Claims: claims,
	}, nil
}

// Logout places a token in the registry according to the logout mode.
func (r *Resolver) Logout(ctx context.Context, session *Session) error {
	if session == nil || session.User == nil {
		return errors.New("[Resolver.Logout] session is required")
	}

	target := session.Token
	if r.logoutMode == LogoutReissued {
		reissued, err := r.codec.IssueDefault(session.User.Email)
		if err != nil {
			return errors.Wrap(err, "[Resolver.Logout] codec.IssueDefault")
		}
		target = reissued
	}

	if err := r.registry.Revoke(ctx, target); err != nil {
		return errors.Wrap(err, "[Resolver.Logout] registry.Revoke")
	}
	return nil
}

func fromDecodeError(err error) *AuthError {
	var decodeErr *token.DecodeError
	if !errors.As(err, &decodeErr) {
		return newAuthError(Malformed, err)
	}
	switch decodeErr.Kind {
	case token.Expired:
		return newAuthError(Expired, err)
	case token.BadSignature:
		return newAuthError(BadSignature, err)
	default:
		return newAuthError(Malformed, err)
	}
}
