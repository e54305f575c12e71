package identity

import (
	"time"

	"visaslot/cmd/identity/ids"
)

// newUserID allocates a ULID for a new user record.
func newUserID(now time.Time) (string, error) {
	return ids.NewULID(now)
}
