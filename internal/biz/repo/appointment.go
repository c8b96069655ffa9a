package repo

import (
	"context"

	"github.com/upseller/upseller/internal/biz/domain"
)

// AppointmentRepo is the appointment persistence interface
type AppointmentRepo interface {
	// Save stores an appointment
	Save(ctx context.Context, appt *domain.Appointment) error

	// Get returns an appointment by ID, or nil if absent
	Get(ctx context.Context, id string) (*domain.Appointment, error)

	// List returns all appointments
	List(ctx context.Context) ([]*domain.Appointment, error)

	// UpdateStatus applies a status transition and returns the updated
	// record, or nil if the appointment does not exist
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
}
