package config

import (
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

// SupportedAlgorithms lists the HMAC signing algorithms accepted for ALGORITHM.
var SupportedAlgorithms = []string{"HS256", "HS384", "HS512"}

type Token struct {
	SecretKey                string `env:"SECRET_KEY"`
	Algorithm                string `env:"ALGORITHM"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
}

var _ TokenConfig = Token{}

func (t Token) GetSecretKey() string {
	return t.SecretKey
}

func (t Token) GetAlgorithm() string {
	return strings.ToUpper(strings.TrimSpace(t.Algorithm))
}

func (t Token) GetDefaultAccessTokenExpiry() time.Duration {
	return time.Duration(t.AccessTokenExpireMinutes) * time.Minute
}

func (t Token) Validate() error {
	if strings.TrimSpace(t.SecretKey) == "" {
		return apperrors.NewConfigurationError("SECRET_KEY", "is not set")
	}
	alg := t.GetAlgorithm()
	if alg == "" {
		return apperrors.NewConfigurationError("ALGORITHM", "is not set")
	}
	supported := false
	for _, a := range SupportedAlgorithms {
		if a == alg {
			supported = true
			break
		}
	}
	if !supported {
		return apperrors.NewConfigurationError("ALGORITHM", "must be one of "+strings.Join(SupportedAlgorithms, ", "))
	}
	if t.AccessTokenExpireMinutes <= 0 {
		return apperrors.NewConfigurationError("ACCESS_TOKEN_EXPIRE_MINUTES", "must be positive")
	}
	return nil
}
