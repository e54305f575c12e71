package token

import "errors"

var (
	// ErrExpired is returned when a token's signature is valid but its
	// expiry has passed. Callers surface a distinct error code for this.
	ErrExpired = errors.New("token expired")

	// ErrInvalid is returned for every other verification failure:
	// malformed input, wrong signing key, wrong token kind, tampered payload.
	ErrInvalid = errors.New("token invalid")

	// ErrConfig is returned for invalid codec configuration.
	ErrConfig = errors.New("invalid token config")
)
