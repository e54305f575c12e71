package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-memory RevocationStore used when Redis is not
// configured (dev mode) and by package tests. Expiry is checked lazily on
// access rather than by a sweeper goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord

	now func() time.Time
}

type memoryRecord struct {
	userID    string
	expiresAt time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, refreshToken, userID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[refreshToken] = memoryRecord{
		userID:    userID,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, refreshToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[refreshToken]
	if !ok {
		return "", ErrRecordNotFound
	}
	if !rec.expiresAt.After(s.now()) {
		delete(s.records, refreshToken)
		return "", ErrRecordNotFound
	}
	return rec.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, refreshToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, refreshToken)
	return nil
}

func (s *MemoryStore) CompareAndDelete(ctx context.Context, refreshToken, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[refreshToken]
	if !ok || !rec.expiresAt.After(s.now()) || rec.userID != userID {
		return false, nil
	}
	delete(s.records, refreshToken)
	return true, nil
}
