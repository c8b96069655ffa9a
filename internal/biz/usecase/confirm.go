package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/metrics"
)

// InviteWriter renders a calendar invite file for an appointment and
// returns its serving path
type InviteWriter interface {
	WriteInvite(appt *domain.Appointment, title string) (string, error)
}

// ConfirmerUsecase confirms a chosen slot against the external calendar
// and persists the resulting appointment
type ConfirmerUsecase struct {
	calendar     repo.CalendarRepo
	appointments repo.AppointmentRepo
	invites      InviteWriter // optional
	log          zerolog.Logger
	metrics      *metrics.Metrics
}

// NewConfirmerUsecase creates a new appointment confirmer usecase
func NewConfirmerUsecase(
	calendar repo.CalendarRepo,
	appointments repo.AppointmentRepo,
	invites InviteWriter,
	log zerolog.Logger,
	m *metrics.Metrics,
) *ConfirmerUsecase {
	return &ConfirmerUsecase{
		calendar:     calendar,
		appointments: appointments,
		invites:      invites,
		log:          log,
		metrics:      m,
	}
}

// ConfirmAppointment creates a calendar event for the slot and records the
// appointment. A missing authorization from the calendar collaborator is
// returned as *repo.AuthRequiredError so callers can offer re-auth instead
// of a generic failure.
func (uc *ConfirmerUsecase) ConfirmAppointment(
	ctx context.Context,
	listing *domain.Listing,
	buyerID, startIso, spot string,
	durationMin int,
	buyerEmail string,
) (*domain.Appointment, error) {
	start, err := time.Parse(time.RFC3339, startIso)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	duration := domain.DefaultAppointmentDuration
	if durationMin > 0 {
		duration = time.Duration(durationMin) * time.Minute
	}
	end := start.Add(duration)

	ref, err := uc.calendar.CreateEvent(ctx, repo.EventInput{
		Summary:    fmt.Sprintf("Marketplace meetup: %s", listing.Title),
		Location:   spot,
		Start:      start,
		End:        end,
		GuestEmail: buyerEmail,
	})
	if err != nil {
		if authErr, ok := repo.AsAuthRequired(err); ok {
			uc.metrics.IncAppointmentCreated("needs_auth")
			return nil, authErr
		}
		uc.metrics.IncAppointmentCreated("error")
		return nil, fmt.Errorf("create calendar event: %w", err)
	}

	appt := &domain.Appointment{
		ID:        uuid.NewString(),
		ListingID: listing.ID,
		BuyerID:   buyerID,
		StartIso:  start.UTC().Format(time.RFC3339),
		EndIso:    end.UTC().Format(time.RFC3339),
		Spot:      spot,
		Status:    domain.AppointmentProposed,
		EventID:   ref.EventID,
		HTMLLink:  ref.HTMLLink,
	}

	if uc.invites != nil {
		path, err := uc.invites.WriteInvite(appt, listing.Title)
		if err != nil {
			// The appointment stands even if the invite file fails
			uc.log.Warn().Err(err).Str("appointment_id", appt.ID).Msg("failed to write invite file")
		} else {
			appt.IcsPath = path
		}
	}

	if err := uc.appointments.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}

	uc.metrics.IncAppointmentCreated("ok")
	return appt, nil
}

// UpdateStatus applies a status transition to a stored appointment
func (uc *ConfirmerUsecase) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	return uc.appointments.UpdateStatus(ctx, id, status)
}
