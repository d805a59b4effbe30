package users

import "context"

// Reader is the lookup side of the user store that authentication depends on.
type Reader interface {
	// GetByEmail returns ErrUserNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type UserRepo interface {
	Reader
	// Create stores a new user, assigning ID and CreatedAt when empty.
	// It returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
}

// Store hands out repositories and runs units of work. WithTx commits when fn
// returns nil and rolls back otherwise; the caller owns that boundary.
type Store interface {
	Users() UserRepo
	WithTx(ctx context.Context, fn func(ctx context.Context, repo UserRepo) error) error
}
