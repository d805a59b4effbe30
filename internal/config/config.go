package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	SecurityConfig
	DatabaseConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() []string
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type TokenConfig interface {
	GetSecretKey() string
	GetAlgorithm() string
	GetDefaultAccessTokenExpiry() time.Duration
}

type DatabaseConfig interface {
	GetDatabaseURL() string
	GetMigrateOnStart() bool
}

type mainConfig struct {
	EnvVars
	Cors
	Token
	Security
	Database
}

var _ Config = (*mainConfig)(nil)

// New reads the process environment once and validates it. Any missing or
// invalid security setting is returned as a *errors.ConfigurationError.
func New() (Config, error) {
	return NewFromEnvironment(nil)
}

// NewFromEnvironment is New with an explicit environment map, nil meaning the
// process environment.
func NewFromEnvironment(environment map[string]string) (Config, error) {
	c := &mainConfig{}
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, apperrors.Wrapf(err, "[config New] env.Parse")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting the server cannot run without.
func (c *mainConfig) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return err
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	return nil
}
