package alert

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and dev mode.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Alert
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Alert)}
}

// Create inserts a new alert.
func (s *MemoryStore) Create(_ context.Context, in CreateAlertInput) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := Alert{
		ID:        in.ID,
		Country:   in.Country,
		City:      in.City,
		VisaType:  in.VisaType,
		Status:    in.Status,
		CreatedAt: in.CreatedAt,
	}
	s.byID[a.ID] = a
	return a, nil
}

// GetByID fetches one alert.
func (s *MemoryStore) GetByID(_ context.Context, id string) (Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return Alert{}, ErrNotFound
	}
	return a, nil
}

// UpdateStatus sets the status of an alert.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Alert{}, ErrNotFound
	}
	a.Status = status
	s.byID[id] = a
	return a, nil
}

// Delete removes an alert and returns the deleted row.
func (s *MemoryStore) Delete(_ context.Context, id string) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Alert{}, ErrNotFound
	}
	delete(s.byID, id)
	return a, nil
}

// ListBefore pages the feed newest-first, by created_at alone, like the
// Postgres store.
func (s *MemoryStore) ListBefore(_ context.Context, before *time.Time, n int) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, 0, len(s.byID))
	for _, a := range s.byID {
		if before != nil && !a.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
