package auth

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = apperrors.ErrInvalidCredentials

// AuthErrorKind says why a presented token did not yield a session.
type AuthErrorKind string

const (
	Invalidated    AuthErrorKind = "invalidated"
	Expired        AuthErrorKind = "expired"
	Malformed      AuthErrorKind = "malformed"
	BadSignature   AuthErrorKind = "bad_signature"
	UnknownSubject AuthErrorKind = "unknown_subject"
)

// AuthError is returned by Resolver.Resolve when a token is rejected. The kind
// is for logs and metrics; clients only ever see a generic 401.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("authentication failed: %s", e.Kind)
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}
