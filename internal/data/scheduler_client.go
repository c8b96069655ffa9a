package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// schedulerClient implements the scheduler repository over HTTP, used by
// the master service to call the calendar service
type schedulerClient struct {
	http *resty.Client
}

// NewSchedulerClient creates a calendar service client
func NewSchedulerClient(baseURL string) repo.SchedulerRepo {
	return &schedulerClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
	}
}

type suggestSlotsRequest struct {
	Listing     *domain.Listing `json:"listing"`
	WindowCount int             `json:"windowCount"`
	DurationMin int             `json:"durationMin"`
}

type suggestSlotsResponse struct {
	Suggested []string `json:"suggested"`
	NeedsAuth bool     `json:"needsAuth"`
	AuthURL   string   `json:"authUrl"`
}

// SuggestSlots returns up to windowCount conflict-free slot start times.
// The needsAuth response variant surfaces as *repo.AuthRequiredError.
func (c *schedulerClient) SuggestSlots(ctx context.Context, listing *domain.Listing, windowCount, durationMin int) ([]string, error) {
	var out suggestSlotsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(suggestSlotsRequest{Listing: listing, WindowCount: windowCount, DurationMin: durationMin}).
		SetResult(&out).
		Post("/suggest-slots")
	if err != nil {
		return nil, fmt.Errorf("suggest-slots request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("suggest-slots failed: %s", resp.Status())
	}
	if out.NeedsAuth {
		return nil, &repo.AuthRequiredError{AuthURL: out.AuthURL}
	}
	return out.Suggested, nil
}

type createAppointmentRequest struct {
	Listing     *domain.Listing `json:"listing"`
	BuyerID     string          `json:"buyerId"`
	StartIso    string          `json:"startIso"`
	Spot        string          `json:"spot"`
	DurationMin int             `json:"durationMin"`
	BuyerEmail  string          `json:"buyerEmail,omitempty"`
}

type createAppointmentResponse struct {
	domain.Appointment
	NeedsAuth bool   `json:"needsAuth"`
	AuthURL   string `json:"authUrl"`
}

// CreateAppointment confirms a chosen slot against the calendar
func (c *schedulerClient) CreateAppointment(ctx context.Context, listing *domain.Listing, buyerID, startIso, spot string, durationMin int, buyerEmail string) (*domain.Appointment, error) {
	var out createAppointmentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createAppointmentRequest{
			Listing:     listing,
			BuyerID:     buyerID,
			StartIso:    startIso,
			Spot:        spot,
			DurationMin: durationMin,
			BuyerEmail:  buyerEmail,
		}).
		SetResult(&out).
		Post("/create-appointment")
	if err != nil {
		return nil, fmt.Errorf("create-appointment request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create-appointment failed: %s", resp.Status())
	}
	if out.NeedsAuth {
		return nil, &repo.AuthRequiredError{AuthURL: out.AuthURL}
	}
	appt := out.Appointment
	return &appt, nil
}
