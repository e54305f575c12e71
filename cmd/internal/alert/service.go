package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"visaslot/cmd/identity/ids"
	"visaslot/cmd/internal/notify"
)

// CreateInput is a request to record a new alert. Status and timestamps are
// allocated by the service.
type CreateInput struct {
	Country  string
	City     string
	VisaType VisaType
}

// Service owns the alert lifecycle: creation, status changes, deletion, and
// the fan-out of those changes to the notify hub.
type Service struct {
	log   *slog.Logger
	store Store
	hub   *notify.Hub

	now func() time.Time
}

// NewService constructs a Service. hub may be nil, in which case lifecycle
// events are not published.
func NewService(log *slog.Logger, store Store, hub *notify.Hub) *Service {
	return &Service{
		log:   log,
		store: store,
		hub:   hub,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create records a new alert. New alerts always start Active.
func (s *Service) Create(ctx context.Context, in CreateInput) (Alert, error) {
	const op = "alert.Service.Create"

	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	if in.Country == "" || in.City == "" || !in.VisaType.Valid() {
		return Alert{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	now := s.now()
	id, err := ids.NewULID(now)
	if err != nil {
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}

	a, err := s.store.Create(ctx, CreateAlertInput{
		ID:        id,
		Country:   in.Country,
		City:      in.City,
		VisaType:  in.VisaType,
		Status:    StatusActive,
		CreatedAt: now,
	})
	if err != nil {
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("alert.created", "alert_id", a.ID, "country", a.Country, "city", a.City)
	s.publish(notify.EventAlertCreated, a)
	return a, nil
}

// UpdateStatus moves an alert to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Alert, error) {
	const op = "alert.Service.UpdateStatus"

	if !status.Valid() {
		return Alert{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	a, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("alert.updated", "alert_id", a.ID, "status", string(a.Status))
	s.publish(notify.EventAlertUpdated, a)
	return a, nil
}

// Delete removes an alert and returns the deleted row.
func (s *Service) Delete(ctx context.Context, id string) (Alert, error) {
	const op = "alert.Service.Delete"

	a, err := s.store.Delete(ctx, id)
	if err != nil {
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("alert.deleted", "alert_id", a.ID)
	s.publish(notify.EventAlertDeleted, a)
	return a, nil
}

func (s *Service) publish(t notify.EventType, a Alert) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(notify.Event{Type: t, Payload: a})
}
