package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// Mock implementations

type mockCalendarRepo struct {
	ref repo.EventRef
	err error
}

func (m *mockCalendarRepo) FreeBusy(ctx context.Context, from, to time.Time) ([]domain.Window, error) {
	return nil, nil
}

func (m *mockCalendarRepo) CreateEvent(ctx context.Context, ev repo.EventInput) (repo.EventRef, error) {
	return m.ref, m.err
}

type mockAppointmentRepo struct {
	saved map[string]*domain.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{saved: make(map[string]*domain.Appointment)}
}

func (m *mockAppointmentRepo) Save(ctx context.Context, a *domain.Appointment) error {
	m.saved[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return m.saved[id], nil
}

func (m *mockAppointmentRepo) List(ctx context.Context) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range m.saved {
		result = append(result, a)
	}
	return result, nil
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	a, ok := m.saved[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if err := a.TransitionTo(status); err != nil {
		return nil, err
	}
	return a, nil
}

func testListing() *domain.Listing {
	return &domain.Listing{ID: "listing-1", Title: "IKEA desk"}
}

func TestConfirmer_CreatesAppointment(t *testing.T) {
	calendar := &mockCalendarRepo{ref: repo.EventRef{EventID: "evt-1", HTMLLink: "https://calendar.example/evt-1"}}
	appts := newMockAppointmentRepo()
	uc := NewConfirmerUsecase(calendar, appts, nil, zerolog.Nop(), nil)

	appt, err := uc.ConfirmAppointment(context.Background(), testListing(), "buyer-1", "2025-08-16T22:30:00Z", "Provo Rec Center", 45, "buyer@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if appt.EndIso != "2025-08-16T23:15:00Z" {
		t.Errorf("Expected end = start + 45min, got %s", appt.EndIso)
	}
	if appt.Status != domain.AppointmentProposed {
		t.Errorf("Expected proposed status, got %s", appt.Status)
	}
	if appt.EventID != "evt-1" {
		t.Errorf("Expected external event reference, got %q", appt.EventID)
	}
	if _, ok := appts.saved[appt.ID]; !ok {
		t.Error("Expected appointment persisted")
	}
}

func TestConfirmer_DefaultDuration(t *testing.T) {
	calendar := &mockCalendarRepo{}
	uc := NewConfirmerUsecase(calendar, newMockAppointmentRepo(), nil, zerolog.Nop(), nil)

	appt, err := uc.ConfirmAppointment(context.Background(), testListing(), "buyer-1", "2025-08-16T22:30:00Z", "Provo Rec Center", 0, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if appt.EndIso != "2025-08-16T23:15:00Z" {
		t.Errorf("Expected default 45-minute duration, got end %s", appt.EndIso)
	}
}

func TestConfirmer_AuthRequiredPassesThroughTyped(t *testing.T) {
	calendar := &mockCalendarRepo{err: &repo.AuthRequiredError{AuthURL: "https://accounts.example/oauth"}}
	uc := NewConfirmerUsecase(calendar, newMockAppointmentRepo(), nil, zerolog.Nop(), nil)

	_, err := uc.ConfirmAppointment(context.Background(), testListing(), "buyer-1", "2025-08-16T22:30:00Z", "spot", 45, "")
	if err == nil {
		t.Fatal("Expected error")
	}

	authErr, ok := repo.AsAuthRequired(err)
	if !ok {
		t.Fatalf("Expected AuthRequiredError, got %T", err)
	}
	if authErr.AuthURL != "https://accounts.example/oauth" {
		t.Errorf("Expected auth URL carried, got %q", authErr.AuthURL)
	}
}

func TestConfirmer_InvalidStartRejected(t *testing.T) {
	uc := NewConfirmerUsecase(&mockCalendarRepo{}, newMockAppointmentRepo(), nil, zerolog.Nop(), nil)

	if _, err := uc.ConfirmAppointment(context.Background(), testListing(), "buyer-1", "not-a-time", "spot", 45, ""); err == nil {
		t.Error("Expected error for invalid start time")
	}
}
