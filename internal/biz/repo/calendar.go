package repo

import (
	"context"
	"errors"
	"time"

	"github.com/upseller/upseller/internal/biz/domain"
)

// AuthRequiredError signals that the calendar collaborator needs
// re-authorization. It is a distinct, typed outcome rather than a generic
// failure so callers can present a recovery path.
type AuthRequiredError struct {
	AuthURL string
}

func (e *AuthRequiredError) Error() string {
	return "calendar authorization required"
}

// AsAuthRequired unwraps err into an AuthRequiredError if it is one
func AsAuthRequired(err error) (*AuthRequiredError, bool) {
	var authErr *AuthRequiredError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// EventInput describes a calendar event to create
type EventInput struct {
	Summary    string
	Location   string
	Start      time.Time
	End        time.Time
	GuestEmail string
}

// EventRef references a created external calendar event
type EventRef struct {
	EventID  string
	HTMLLink string
}

// CalendarRepo is the external calendar collaborator interface
type CalendarRepo interface {
	// FreeBusy returns the busy intervals between from and to
	FreeBusy(ctx context.Context, from, to time.Time) ([]domain.Window, error)

	// CreateEvent persists an event and returns its external reference
	CreateEvent(ctx context.Context, ev EventInput) (EventRef, error)
}
