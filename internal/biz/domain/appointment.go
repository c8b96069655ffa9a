package domain

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the appointment lifecycle state
type AppointmentStatus string

const (
	AppointmentProposed  AppointmentStatus = "proposed"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentDuration is the fixed meetup slot length
const DefaultAppointmentDuration = 45 * time.Minute

// Appointment represents a scheduled meetup
type Appointment struct {
	ID        string            `json:"id"`
	ListingID string            `json:"listingId"`
	BuyerID   string            `json:"buyerId"`
	StartIso  string            `json:"startIso"`
	EndIso    string            `json:"endIso"`
	Spot      string            `json:"spot"`
	Status    AppointmentStatus `json:"status"`
	EventID   string            `json:"eventId,omitempty"`
	HTMLLink  string            `json:"htmlLink,omitempty"`
	IcsPath   string            `json:"icsPath,omitempty"`
}

// TransitionTo applies a status change.
// Allowed: proposed -> confirmed, proposed/confirmed -> cancelled.
// Cancelled appointments are immutable.
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if a.Status == AppointmentCancelled {
		return fmt.Errorf("appointment %s is cancelled and cannot change status", a.ID)
	}
	switch next {
	case AppointmentConfirmed:
		if a.Status != AppointmentProposed {
			return fmt.Errorf("cannot confirm appointment in status %s", a.Status)
		}
	case AppointmentCancelled:
		// always allowed from proposed/confirmed
	case AppointmentProposed:
		return fmt.Errorf("cannot move appointment back to proposed")
	default:
		return fmt.Errorf("unknown appointment status %q", next)
	}
	a.Status = next
	return nil
}

// Start returns the parsed start time
func (a *Appointment) Start() (time.Time, error) {
	return time.Parse(time.RFC3339, a.StartIso)
}
