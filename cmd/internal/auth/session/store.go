package session

import (
	"context"
	"time"
)

// RevocationStore records which refresh tokens are currently live.
// Presence of a record is the sole source of truth for "this refresh token
// is still usable"; a syntactically valid token with no record is revoked.
//
// Implementations must not cache: every check is a live round trip so that
// revocation takes effect immediately across all API instances.
type RevocationStore interface {
	// Put upserts a record mapping token -> userID with the given TTL.
	Put(ctx context.Context, refreshToken, userID string, ttl time.Duration) error

	// Get returns the owning user id, or ErrRecordNotFound when the record
	// is absent or expired.
	Get(ctx context.Context, refreshToken string) (string, error)

	// Delete removes a record. Deleting an absent key is a no-op, not an error.
	Delete(ctx context.Context, refreshToken string) error

	// CompareAndDelete atomically deletes the record if it exists and its
	// value equals userID, reporting whether the delete happened. This is
	// the rotation primitive: of two concurrent refreshes exactly one
	// observes true.
	CompareAndDelete(ctx context.Context, refreshToken, userID string) (bool, error)
}
