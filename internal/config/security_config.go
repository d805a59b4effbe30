package config

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-notes-server/auth"
	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

type SecurityConfig interface {
	GetBcryptCost() int
	GetLogoutMode() string
}

type Security struct {
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	LogoutMode string `env:"LOGOUT_MODE" envDefault:"presented"`
}

var _ SecurityConfig = Security{}

func (s Security) GetBcryptCost() int {
	return s.BcryptCost
}

func (s Security) GetLogoutMode() string {
	return s.LogoutMode
}

func (s Security) Validate() error {
	if s.BcryptCost < bcrypt.MinCost || s.BcryptCost > bcrypt.MaxCost {
		return apperrors.NewConfigurationError("BCRYPT_COST", "is out of range")
	}
	if _, err := auth.ParseLogoutMode(s.LogoutMode); err != nil {
		return err
	}
	return nil
}
