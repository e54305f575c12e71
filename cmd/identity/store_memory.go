package identity

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is the in-memory Store used when no database is configured
// (dev mode) and by package tests. Not meant for production.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]User
	byEmail map[string]string // email -> id
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	if in.Email == "" || in.PasswordHash == "" {
		return User{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := newUserID(now)
	if err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[in.Email]; exists {
		return User{}, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}

	u := User{
		ID:           id,
		Email:        in.Email,
		Name:         copyPtr(in.Name),
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[id] = u
	s.byEmail[in.Email] = id
	return u, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, fmt.Errorf("identity.GetByID: %w", ErrNotFound)
	}
	return u, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return User{}, fmt.Errorf("identity.GetByEmail: %w", ErrNotFound)
	}
	return s.byID[id], nil
}

func (s *MemoryStore) UpdateName(ctx context.Context, id string, name *string, now time.Time) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, fmt.Errorf("identity.UpdateName: %w", ErrNotFound)
	}
	if name != nil {
		u.Name = copyPtr(name)
	}
	u.UpdatedAt = now
	s.byID[id] = u
	return u, nil
}

func (s *MemoryStore) UpdatePassword(ctx context.Context, id string, passwordHash string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("identity.UpdatePassword: %w", ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = now
	s.byID[id] = u
	return nil
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
