package repo

import (
	"context"

	"github.com/upseller/upseller/internal/biz/domain"
)

// SchedulerRepo is the scheduling collaborator interface used by the
// orchestrator. Served locally in the calendar service and remotely (HTTP)
// from the master service. A missing authorization surfaces as
// *AuthRequiredError, never a generic failure.
type SchedulerRepo interface {
	// SuggestSlots returns up to windowCount conflict-free slot start times
	SuggestSlots(ctx context.Context, listing *domain.Listing, windowCount, durationMin int) ([]string, error)

	// CreateAppointment confirms a chosen slot against the calendar
	CreateAppointment(ctx context.Context, listing *domain.Listing, buyerID, startIso, spot string, durationMin int, buyerEmail string) (*domain.Appointment, error)
}
