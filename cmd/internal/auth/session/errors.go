package session

import "errors"

var (
	// ErrDuplicateUser is returned by Register when the email is taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrWeakPassword is returned when a password is shorter than MinPasswordLen.
	ErrWeakPassword = errors.New("password too weak")

	// ErrUserNotFound is returned when no user matches the given email or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when a password comparison fails.
	// Kept distinct from ErrUserNotFound; the transport decides whether to
	// collapse the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRefreshExpired is returned when a refresh token's signature is valid
	// but its expiry has passed.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrRefreshInvalid is returned when a refresh token fails the local
	// cryptographic check for any reason other than expiry.
	ErrRefreshInvalid = errors.New("refresh token invalid")

	// ErrRefreshRevoked is returned when a syntactically valid refresh token
	// has no live revocation-store record: it was rotated out, logged out,
	// expired server-side, or lost a concurrent rotation race.
	ErrRefreshRevoked = errors.New("refresh token revoked")

	// ErrRecordNotFound is the store-level sentinel for an absent record.
	ErrRecordNotFound = errors.New("refresh record not found")
)
