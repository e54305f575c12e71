package alert

import (
	"context"
	"time"
)

// CreateAlertInput carries a fully-formed alert row; the service allocates
// the id, status, and timestamp before calling the store.
type CreateAlertInput struct {
	ID        string
	Country   string
	City      string
	VisaType  VisaType
	Status    Status
	CreatedAt time.Time
}

// Store is the persistence boundary for alerts.
//
// Implementations must return ErrNotFound when an id does not resolve.
type Store interface {
	// Create inserts a new alert and returns the stored row.
	Create(ctx context.Context, in CreateAlertInput) (Alert, error)

	// GetByID fetches one alert.
	GetByID(ctx context.Context, id string) (Alert, error)

	// UpdateStatus sets the status of an alert and returns the updated row.
	UpdateStatus(ctx context.Context, id string, status Status) (Alert, error)

	// Delete removes an alert and returns the row as it was.
	Delete(ctx context.Context, id string) (Alert, error)

	// ListBefore returns up to n alerts ordered by creation time descending.
	// A nil before starts from the newest row; otherwise only rows created
	// strictly before the given instant are returned.
	ListBefore(ctx context.Context, before *time.Time, n int) ([]Alert, error)
}
