package token

import "fmt"

// DecodeErrorKind classifies why a token could not be decoded.
type DecodeErrorKind string

const (
	Malformed    DecodeErrorKind = "malformed"
	Expired      DecodeErrorKind = "expired"
	BadSignature DecodeErrorKind = "bad_signature"
)

// DecodeError is returned by Codec.Decode for every rejected token.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token %s", e.Kind)
	}
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(kind DecodeErrorKind, err error) *DecodeError {
	return &DecodeError{Kind: kind, Err: err}
}
