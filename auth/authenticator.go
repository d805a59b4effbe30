package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-notes-server/users"
)

// dummyPassword is hashed once per Authenticator so that a login for an
// unknown email still pays for a bcrypt comparison.
const dummyPassword = "notes-server-dummy-password"

// Authenticator checks an email and password against the user store.
type Authenticator struct {
	users     users.Reader
	hasher    users.Hasher
	dummyHash string
}

func NewAuthenticator(reader users.Reader, hasher users.Hasher) (*Authenticator, error) {
	if reader == nil {
		return nil, errors.New("[NewAuthenticator] user reader is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewAuthenticator] hasher is required")
	}
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAuthenticator] hasher.Hash")
	}
	return &Authenticator{
		users:     reader,
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

// Authenticate returns the user when password matches the stored hash.
// An unknown email and a wrong password both give ErrInvalidCredentials;
// any other store failure is returned wrapped.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		a.hasher.Verify(password, a.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticator.Authenticate] GetByEmail")
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
