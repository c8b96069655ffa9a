package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/upseller/upseller/gcal"
	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// calendarRepo implements the calendar collaborator repository on the
// gcal client, translating its auth failures into the typed repo outcome
type calendarRepo struct {
	client *gcal.Client
}

// NewCalendarRepo creates a calendar repository
func NewCalendarRepo(client *gcal.Client) repo.CalendarRepo {
	return &calendarRepo{client: client}
}

// FreeBusy returns the busy intervals between from and to
func (r *calendarRepo) FreeBusy(ctx context.Context, from, to time.Time) ([]domain.Window, error) {
	intervals, err := r.client.FreeBusy(ctx, from, to)
	if err != nil {
		return nil, translateAuthError(err)
	}

	busy := make([]domain.Window, 0, len(intervals))
	for _, iv := range intervals {
		busy = append(busy, domain.Window{Start: iv.Start, End: iv.End})
	}
	return busy, nil
}

// CreateEvent persists an event and returns its external reference
func (r *calendarRepo) CreateEvent(ctx context.Context, ev repo.EventInput) (repo.EventRef, error) {
	created, err := r.client.CreateEvent(ctx, gcal.Event{
		Summary:    ev.Summary,
		Location:   ev.Location,
		Start:      ev.Start,
		End:        ev.End,
		GuestEmail: ev.GuestEmail,
	})
	if err != nil {
		return repo.EventRef{}, translateAuthError(err)
	}
	return repo.EventRef{EventID: created.ID, HTMLLink: created.HTMLLink}, nil
}

func translateAuthError(err error) error {
	var authErr *gcal.ErrAuthRequired
	if errors.As(err, &authErr) {
		return &repo.AuthRequiredError{AuthURL: authErr.AuthURL}
	}
	return err
}

// gcalTokenSource adapts the token repository to the gcal client.
// An expired or missing token yields an empty string, which the client
// reports as an authorization-required outcome.
type gcalTokenSource struct {
	tokens repo.TokenRepo
}

// NewGcalTokenSource creates a token source backed by the token repository
func NewGcalTokenSource(tokens repo.TokenRepo) gcal.TokenSource {
	return &gcalTokenSource{tokens: tokens}
}

func (s *gcalTokenSource) AccessToken(ctx context.Context) (string, error) {
	blob, err := s.tokens.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load token blob: %w", err)
	}
	if blob == nil {
		return "", nil
	}

	token, err := gcal.ParseToken(blob)
	if err != nil {
		return "", err
	}
	if !token.Valid(time.Now()) {
		return "", nil
	}
	return token.AccessToken, nil
}
