package gcal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
	defaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultScope   = "https://www.googleapis.com/auth/calendar.events"
)

// ErrAuthRequired signals that no valid authorization is available.
// Callers surface AuthURL so the operator can re-authorize.
type ErrAuthRequired struct {
	AuthURL string
}

func (e *ErrAuthRequired) Error() string {
	return "calendar API authorization required"
}

// TokenSource supplies the current OAuth access token.
// An empty token means no authorization is stored.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Interval is a busy time range reported by the freebusy query
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Event describes a calendar event
type Event struct {
	ID         string
	Summary    string
	Location   string
	Start      time.Time
	End        time.Time
	GuestEmail string
	HTMLLink   string
}

// Client is a Google-Calendar-style REST client
type Client struct {
	http        *resty.Client
	tokens      TokenSource
	calendarID  string
	clientID    string
	redirectURI string
	authBase    string
}

// NewClient creates a calendar client.
// baseURL may be empty for the Google default; calendarID defaults to "primary".
func NewClient(baseURL, calendarID, clientID, redirectURI string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)

	return &Client{
		http:        http,
		tokens:      tokens,
		calendarID:  calendarID,
		clientID:    clientID,
		redirectURI: redirectURI,
		authBase:    defaultAuthURL,
	}
}

// AuthCodeURL builds the consent URL for re-authorization
func (c *Client) AuthCodeURL() string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", defaultScope)
	q.Set("access_type", "offline")
	return c.authBase + "?" + q.Encode()
}

type freeBusyRequest struct {
	TimeMin string             `json:"timeMin"`
	TimeMax string             `json:"timeMax"`
	Items   []freeBusyCalendar `json:"items"`
}

type freeBusyCalendar struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// FreeBusy returns the busy intervals between from and to
func (c *Client) FreeBusy(ctx context.Context, from, to time.Time) ([]Interval, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var out freeBusyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(freeBusyRequest{
			TimeMin: from.UTC().Format(time.RFC3339),
			TimeMax: to.UTC().Format(time.RFC3339),
			Items:   []freeBusyCalendar{{ID: c.calendarID}},
		}).
		SetResult(&out).
		Post("/freeBusy")
	if err != nil {
		return nil, fmt.Errorf("freebusy request: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return nil, &ErrAuthRequired{AuthURL: c.AuthCodeURL()}
	}
	if resp.IsError() {
		return nil, fmt.Errorf("freebusy request failed: %s", resp.Status())
	}

	var intervals []Interval
	for _, cal := range out.Calendars {
		for _, b := range cal.Busy {
			intervals = append(intervals, Interval{Start: b.Start, End: b.End})
		}
	}
	return intervals, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type eventRequest struct {
	Summary   string     `json:"summary"`
	Location  string     `json:"location,omitempty"`
	Start     eventTime  `json:"start"`
	End       eventTime  `json:"end"`
	Attendees []attendee `json:"attendees,omitempty"`
}

type attendee struct {
	Email string `json:"email"`
}

type eventResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// CreateEvent inserts an event and returns it with the server-assigned
// ID and link filled in
func (c *Client) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	token, err := c.token(ctx)
	if err != nil {
		return Event{}, err
	}

	req := eventRequest{
		Summary:  ev.Summary,
		Location: ev.Location,
		Start:    eventTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:      eventTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
	}
	if ev.GuestEmail != "" {
		req.Attendees = []attendee{{Email: ev.GuestEmail}}
	}

	var out eventResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/calendars/%s/events", url.PathEscape(c.calendarID)))
	if err != nil {
		return Event{}, fmt.Errorf("create event request: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return Event{}, &ErrAuthRequired{AuthURL: c.AuthCodeURL()}
	}
	if resp.IsError() {
		return Event{}, fmt.Errorf("create event failed: %s", resp.Status())
	}

	ev.ID = out.ID
	ev.HTMLLink = out.HTMLLink
	return ev, nil
}

// token resolves the current access token or an ErrAuthRequired
func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", &ErrAuthRequired{AuthURL: c.AuthCodeURL()}
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("load access token: %w", err)
	}
	if token == "" {
		return "", &ErrAuthRequired{AuthURL: c.AuthCodeURL()}
	}
	return token, nil
}
