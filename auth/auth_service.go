package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-notes-server/token"
	"github.com/jrsteele09/go-notes-server/users"
)

const tokenTypeBearer = "bearer"

// TokenResponse is what a successful login hands back to the client.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserWithToken is returned by signup so the new user is logged in at once.
type UserWithToken struct {
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService ties the user store, the token codec and the revocation
// registry together behind the operations the HTTP layer needs.
type AuthService struct {
	store         users.Store
	codec         *token.Codec
	hasher        users.Hasher
	authenticator *Authenticator
	resolver      *Resolver
	logoutMode    LogoutMode
	nowTime       func() time.Time
}

// AuthServiceOption defines a function type to modify the AuthService instance.
type AuthServiceOption func(*AuthService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthServiceOption {
	return func(as *AuthService) {
		as.nowTime = nowFunc
	}
}

func WithHasher(hasher users.Hasher) AuthServiceOption {
	return func(as *AuthService) {
		as.hasher = hasher
	}
}

func WithServiceLogoutMode(mode LogoutMode) AuthServiceOption {
	return func(as *AuthService) {
		as.logoutMode = mode
	}
}

// NewAuthService initializes a new AuthService with required dependencies.
func NewAuthService(
	store users.Store,
	codec *token.Codec,
	registry token.Registry,
	options ...AuthServiceOption,
) (*AuthService, error) {
	if store == nil {
		return nil, errors.New("[NewAuthService] user store is required")
	}
	if codec == nil {
		return nil, errors.New("[NewAuthService] codec is required")
	}
	if registry == nil {
		return nil, errors.New("[NewAuthService] registry is required")
	}

	as := &AuthService{
		store:      store,
		codec:      codec,
		hasher:     users.NewBcryptHasher(0),
		logoutMode: LogoutPresented,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(as)
	}

	authenticator, err := NewAuthenticator(store.Users(), as.hasher)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAuthService] NewAuthenticator")
	}
	resolver, err := NewResolver(codec, registry, store.Users(), WithLogoutMode(as.logoutMode))
	if err != nil {
		return nil, err
	}
	as.authenticator = authenticator
	as.resolver = resolver
	return as, nil
}

// Signup creates the user and returns a token for it. An email that is
// already registered gives users.ErrEmailExists.
func (as *AuthService) Signup(ctx context.Context, email, password string) (*UserWithToken, error) {
	hash, err := as.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Signup] hasher.Hash")
	}

	err = as.store.WithTx(ctx, func(ctx context.Context, repo users.UserRepo) error {
		_, err := repo.Create(ctx, &users.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    as.nowTime().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Signup] Create")
	}

	accessToken, err := as.codec.IssueDefault(email)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Signup] codec.IssueDefault")
	}

	log.Info().Str("email", email).Msg("user signed up")
	return &UserWithToken{
		Email:       email,
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
	}, nil
}

// Login verifies the credentials and issues an access token.
func (as *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := as.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := as.codec.IssueDefault(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Login] codec.IssueDefault")
	}
	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
	}, nil
}

func (as *AuthService) Resolve(ctx context.Context, rawToken string) (*Session, error) {
	return as.resolver.Resolve(ctx, rawToken)
}

func (as *AuthService) Logout(ctx context.Context, session *Session) error {
	if err := as.resolver.Logout(ctx, session); err != nil {
		return err
	}
	log.Info().Str("email", session.User.Email).Str("mode", string(as.logoutMode)).Msg("user logged out")
	return nil
}

func (as *AuthService) UserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, err := as.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.UserByEmail] GetByEmail")
	}
	return user, nil
}

// ListUsers returns users ordered by creation time. A limit of zero or less
// returns everything from offset on.
func (as *AuthService) ListUsers(ctx context.Context, offset, limit int) ([]*users.User, error) {
	list, err := as.store.Users().List(ctx, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.ListUsers] List")
	}
	return list, nil
}
