package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

const defaultAccessTokenExpiry = 30 * time.Minute

// Claims is the decoded payload of an access token.
type Claims struct {
	Subject   string    // the user's email
	ExpiresAt time.Time // token is valid while now < ExpiresAt
	IssuedAt  time.Time
}

// Codec issues and decodes signed, time limited access tokens. It holds no
// mutable state after construction and is safe for concurrent use.
type Codec struct {
	signer     Signer
	defaultTTL time.Duration
	nowFunc    func() time.Time
}

type CodecOption func(*Codec)

func WithDefaultTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		c.defaultTTL = ttl
	}
}

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, options ...CodecOption) (*Codec, error) {
	if signer == nil {
		return nil, apperrors.NewConfigurationError("signer", "is not set")
	}
	c := &Codec{
		signer: signer,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = defaultAccessTokenExpiry
	}
	if c.nowFunc == nil {
		c.nowFunc = time.Now
	}
	return c, nil
}

// NewHMACCodec builds a Codec over an HMACsigner.
func NewHMACCodec(secret, algorithm string, options ...CodecOption) (*Codec, error) {
	signer, err := NewHMACSigner(secret, algorithm)
	if err != nil {
		return nil, err
	}
	return NewCodec(signer, options...)
}

func (c *Codec) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Issue signs a token for subject that expires ttl from now.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", pkgerrors.Wrap(err, "Codec.Issue")
	}
	return signed, nil
}

// IssueDefault is Issue with the configured default lifetime.
func (c *Codec) IssueDefault(subject string) (string, error) {
	return c.Issue(subject, c.defaultTTL)
}

// Decode verifies raw and returns its claims. Every failure is a *DecodeError;
// signature problems are reported before expiry. Segments must be canonical
// base64url so each accepted token has exactly one spelling.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newDecodeError(Malformed, apperrors.ErrInvalidToken)
	}

	registered := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, registered, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, classify(err)
	}

	if registered.Subject == "" {
		return nil, newDecodeError(Malformed, pkgerrors.Wrap(apperrors.ErrInvalidToken, "token has no subject"))
	}

	claims := &Claims{
		Subject:   registered.Subject,
		ExpiresAt: registered.ExpiresAt.Time,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}

func classify(err error) *DecodeError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newDecodeError(Malformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newDecodeError(BadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newDecodeError(Expired, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err))
	default:
		return newDecodeError(Malformed, err)
	}
}
