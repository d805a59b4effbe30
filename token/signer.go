package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.Claims) (string, error)

	// GetVerificationKey is the jwt.Keyfunc used when parsing a token
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner implements Signer using a symmetric HMAC-SHA2 algorithm
type HMACsigner struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewHMACSigner creates a new HMAC signer for the given secret and algorithm
// name (HS256, HS384 or HS512). A missing secret or algorithm is a
// configuration error.
func NewHMACSigner(secret, algorithm string) (*HMACsigner, error) {
	if secret == "" {
		return nil, apperrors.NewConfigurationError("SECRET_KEY", "is not set")
	}
	if algorithm == "" {
		return nil, apperrors.NewConfigurationError("ALGORITHM", "is not set")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, apperrors.NewConfigurationError("ALGORITHM", "is not an HMAC algorithm: "+algorithm)
	}
	return &HMACsigner{
		secret: []byte(secret),
		method: method,
	}, nil
}

func (h *HMACsigner) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(h.method, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return h.method
}
