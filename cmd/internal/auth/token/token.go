// Package token signs and verifies the two token kinds used by the auth
// subsystem: short-lived stateless access tokens and longer-lived refresh
// tokens whose liveness is additionally tracked in the revocation store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims is the verified payload of either token kind.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
}

// Codec issues and verifies HS256 JWTs. It is stateless and safe for
// concurrent use.
type Codec struct {
	cfg Config
}

// NewCodec validates the configuration and returns a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg}, nil
}

// RefreshTTL exposes the refresh lifetime so the session service can use the
// same duration for the revocation-store record.
func (c *Codec) RefreshTTL() time.Duration {
	return c.cfg.RefreshTTL
}

// IssueAccess signs an access token for the given user.
func (c *Codec) IssueAccess(userID string, now time.Time) (string, time.Time, error) {
	return c.issue(userID, now, kindAccess, c.cfg.AccessSecret, c.cfg.AccessTTL)
}

// IssueRefresh signs a refresh token for the given user.
func (c *Codec) IssueRefresh(userID string, now time.Time) (string, time.Time, error) {
	return c.issue(userID, now, kindRefresh, c.cfg.RefreshSecret, c.cfg.RefreshTTL)
}

// VerifyAccess verifies an access token. An access token is valid on
// signature and expiry alone; nothing is looked up server-side.
func (c *Codec) VerifyAccess(tok string, now time.Time) (Claims, error) {
	return c.verify(tok, now, kindAccess, c.cfg.AccessSecret)
}

// VerifyRefresh verifies a refresh token.
//
// ErrExpired is returned only when the signature checks out but the expiry
// has passed; every other failure collapses to ErrInvalid. Callers rely on
// the distinction to surface different error codes.
func (c *Codec) VerifyRefresh(tok string, now time.Time) (Claims, error) {
	return c.verify(tok, now, kindRefresh, c.cfg.RefreshSecret)
}

func (c *Codec) issue(userID string, now time.Time, kind string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
		Kind:   kind,
	})

	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (c *Codec) verify(tok string, now time.Time, kind string, secret []byte) (Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		// Expiry is only reported once the signature has been verified, so
		// ErrTokenExpired here cannot come from a forged token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if !parsed.Valid || claims.Kind != kind || claims.UserID == "" {
		return Claims{}, ErrInvalid
	}

	out := Claims{UserID: claims.UserID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
