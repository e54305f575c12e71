// Package alert holds the visa-slot alert domain: the Alert record, its
// stores, cursor pagination over the feed, and the lifecycle service.
package alert

import "time"

// VisaType classifies the visa an alert tracks.
type VisaType string

const (
	VisaTourist  VisaType = "Tourist"
	VisaBusiness VisaType = "Business"
	VisaStudent  VisaType = "Student"
)

// Valid reports whether v is one of the known visa types.
func (v VisaType) Valid() bool {
	switch v {
	case VisaTourist, VisaBusiness, VisaStudent:
		return true
	}
	return false
}

// Status is the lifecycle state of an alert.
type Status string

const (
	StatusActive  Status = "Active"
	StatusBooked  Status = "Booked"
	StatusExpired Status = "Expired"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBooked, StatusExpired:
		return true
	}
	return false
}

// Alert is one visa-slot availability record.
type Alert struct {
	ID        string    `json:"id"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	VisaType  VisaType  `json:"visaType"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
