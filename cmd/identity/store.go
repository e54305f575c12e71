package identity

import (
	"context"
	"time"
)

// CreateUserInput carries everything needed to persist a new user.
// The password is hashed by the caller; the store never sees plaintext.
type CreateUserInput struct {
	Email        string
	Name         *string
	PasswordHash string

	// Now is the creation timestamp; zero means time.Now().UTC().
	Now time.Time
}

// Store abstracts user persistence.
//
// Email uniqueness is enforced by implementations, case-sensitive as stored.
type Store interface {
	// Create persists a new user. Returns ErrDuplicateEmail when the email
	// is already taken.
	Create(ctx context.Context, in CreateUserInput) (User, error)

	// GetByID loads a user by id. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail loads a user by email. Returns ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (User, error)

	// UpdateName sets the display name (nil leaves it unchanged) and
	// returns the updated user. Returns ErrNotFound when absent.
	UpdateName(ctx context.Context, id string, name *string, now time.Time) (User, error)

	// UpdatePassword replaces the stored password hash.
	// Returns ErrNotFound when absent.
	UpdatePassword(ctx context.Context, id string, passwordHash string, now time.Time) error
}
