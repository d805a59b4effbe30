package users

import (
	"time"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

var (
	// ErrUserNotFound is returned by lookups when no user has the email.
	ErrUserNotFound = apperrors.ErrUserNotFound
	// ErrEmailExists is returned by Create when the email is already registered.
	ErrEmailExists = apperrors.ErrEmailExists
)

type User struct {
	ID           string    `json:"id"`         // Unique identifier for the user
	Email        string    `json:"email"`      // User's email address, unique
	PasswordHash string    `json:"-"`          // Hashed version of the user's password - never serialize
	CreatedAt    time.Time `json:"created_at"` // Date and time when the user registered
}

// PublicUser is the projection of a User that may leave the server.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
