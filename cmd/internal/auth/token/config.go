package token

import "time"

// Config defines the signing material and lifetimes for both token kinds.
//
// Access and refresh tokens are signed with separate secrets (in addition to
// a kind claim) so one can never be presented in place of the other.
type Config struct {
	// Issuer is the value set in the "iss" claim.
	Issuer string

	// AccessSecret signs short-lived access tokens.
	AccessSecret []byte

	// RefreshSecret signs refresh tokens. Must differ from AccessSecret.
	RefreshSecret []byte

	// AccessTTL is the access-token lifetime.
	AccessTTL time.Duration

	// RefreshTTL is the refresh-token lifetime. It is also the TTL used for
	// the revocation-store record paired with each refresh token.
	RefreshTTL time.Duration
}

// DefaultConfig returns lifetimes matching the deployed service:
// 15-minute access tokens, 7-day refresh tokens. Secrets must be provided
// by the caller.
func DefaultConfig() Config {
	return Config{
		Issuer:     "visaslot",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func (c Config) validate() error {
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return ErrConfig
	}
	if string(c.AccessSecret) == string(c.RefreshSecret) {
		return ErrConfig
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrConfig
	}
	return nil
}
