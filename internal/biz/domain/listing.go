package domain

import "time"

// PaymentMethod represents an accepted payment method
type PaymentMethod string

const (
	PaymentVenmo PaymentMethod = "venmo"
	PaymentCash  PaymentMethod = "cash"
)

// Listing represents an item for sale
// Read-only to negotiation and scheduling; mutated only by explicit seller edits
type Listing struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ListPrice      int             `json:"listPrice"`
	MinPrice       int             `json:"minPrice"`
	LocationCity   string          `json:"locationCity"`
	MeetSpots      []string        `json:"meetSpots"`
	Availability   []string        `json:"availability"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	DeadlineTs     string          `json:"deadlineTs,omitempty"`
}

// FirstMeetSpot returns the first configured meet spot, or a generic fallback
func (l *Listing) FirstMeetSpot() string {
	if len(l.MeetSpots) > 0 {
		return l.MeetSpots[0]
	}
	return "a public meetup spot"
}

// AvailabilityWindows parses the listing's availability intervals.
// Unparseable entries are skipped; an empty result is valid.
func (l *Listing) AvailabilityWindows() []Window {
	var windows []Window
	for _, raw := range l.Availability {
		w, err := ParseWindow(raw)
		if err != nil {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

// Deadline returns the parsed deadline, or zero time if unset/invalid
func (l *Listing) Deadline() time.Time {
	if l.DeadlineTs == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, l.DeadlineTs)
	if err != nil {
		return time.Time{}
	}
	return t
}
