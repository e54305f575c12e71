package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"visaslot/cmd/identity"
	"visaslot/cmd/internal/auth/token"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// TokenPair is an access/refresh pair returned by every issuing operation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the outcome of register, login, and refresh. The user is the
// public projection; the password hash cannot appear here by construction.
type AuthResult struct {
	User   identity.PublicUser `json:"user"`
	Tokens TokenPair           `json:"tokens"`
}

// Service composes the token codec, the revocation store, and the user
// directory into the session operations.
//
// Per refresh token the state machine is
// ISSUED -> ROTATED-OUT | EXPIRED | REVOKED; once a token leaves ISSUED it
// never validates again, because validity requires the store record that
// rotation, logout, or TTL expiry removes.
type Service struct {
	log         *slog.Logger
	codec       *token.Codec
	users       identity.Store
	revocations RevocationStore
}

// NewService constructs a Service.
func NewService(log *slog.Logger, codec *token.Codec, users identity.Store, revocations RevocationStore) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{log: log, codec: codec, users: users, revocations: revocations}
}

// Register creates a user and issues its first token pair.
func (s *Service) Register(ctx context.Context, email string, name *string, password string) (AuthResult, error) {
	s.log.Info("auth.register.attempt", "email", email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, ErrDuplicateUser
	case !errors.Is(err, identity.ErrNotFound):
		return AuthResult{}, err
	}

	if len(password) < MinPasswordLen {
		return AuthResult{}, ErrWeakPassword
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.Create(ctx, identity.CreateUserInput{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return AuthResult{}, ErrDuplicateUser
		}
		return AuthResult{}, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info("auth.register.ok", "user_id", user.ID)
	return AuthResult{User: user.Public(), Tokens: pair}, nil
}

// Login verifies credentials and issues a fresh token pair.
//
// A missing user and a wrong password stay distinguishable here
// (ErrUserNotFound vs ErrInvalidCredentials); collapsing them is a
// transport-level decision.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	s.log.Info("auth.login.attempt", "email", email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return AuthResult{}, ErrUserNotFound
		}
		return AuthResult{}, err
	}

	if !identity.VerifyPassword(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info("auth.login.ok", "user_id", user.ID)
	return AuthResult{User: user.Public(), Tokens: pair}, nil
}

// Refresh rotates a refresh token: two-stage validation (local signature
// check, then store lookup), atomic rotation, then a new pair.
//
// Store or directory failures propagate unchanged so the transport can fail
// closed with an unavailable status instead of an auth failure.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	// Stage 1: local cryptographic check. Cheap, rejects most invalid
	// input without network I/O.
	claims, err := s.codec.VerifyRefresh(refreshToken, time.Now().UTC())
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return AuthResult{}, ErrRefreshExpired
		}
		return AuthResult{}, ErrRefreshInvalid
	}

	// Stage 2: the record must be live and owned by the verified user.
	ownerID, err := s.revocations.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return AuthResult{}, ErrRefreshRevoked
		}
		return AuthResult{}, err
	}
	if ownerID != claims.UserID {
		return AuthResult{}, ErrRefreshRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return AuthResult{}, ErrUserNotFound
		}
		return AuthResult{}, err
	}

	// Rotation. CompareAndDelete is atomic at the store, so of two
	// concurrent refreshes on the same token exactly one proceeds; the
	// other observes the record gone and fails as revoked.
	deleted, err := s.revocations.CompareAndDelete(ctx, refreshToken, claims.UserID)
	if err != nil {
		return AuthResult{}, err
	}
	if !deleted {
		return AuthResult{}, ErrRefreshRevoked
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info("auth.refresh.ok", "user_id", user.ID)
	return AuthResult{User: user.Public(), Tokens: pair}, nil
}

// Logout deletes the refresh record when a token is supplied. It is
// idempotent: logging out an already-dead token succeeds.
func (s *Service) Logout(ctx context.Context, userID, refreshToken string) error {
	s.log.Info("auth.logout", "user_id", userID)

	if refreshToken == "" {
		return nil
	}
	return s.revocations.Delete(ctx, refreshToken)
}

// ChangePassword re-hashes and persists a new password after verifying the
// current one. Existing refresh tokens stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return ErrWeakPassword
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !identity.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := identity.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info("auth.change_password.ok", "user_id", userID)
	return nil
}

// CurrentUser returns the public projection of the given user.
func (s *Service) CurrentUser(ctx context.Context, userID string) (identity.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.PublicUser{}, ErrUserNotFound
		}
		return identity.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile updates the display name (nil leaves it unchanged).
func (s *Service) UpdateProfile(ctx context.Context, userID string, name *string) (identity.PublicUser, error) {
	user, err := s.users.UpdateName(ctx, userID, name, time.Now().UTC())
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.PublicUser{}, ErrUserNotFound
		}
		return identity.PublicUser{}, err
	}
	return user.Public(), nil
}

// issuePair mints an access+refresh pair and records the refresh token in
// the revocation store with the codec's refresh TTL.
func (s *Service) issuePair(ctx context.Context, userID string) (TokenPair, error) {
	now := time.Now().UTC()

	access, _, err := s.codec.IssueAccess(userID, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.codec.IssueRefresh(userID, now)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.revocations.Put(ctx, refresh, userID, s.codec.RefreshTTL()); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
