package domain

import (
	"fmt"
	"strings"
	"time"
)

// Window represents a half-open time interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses an "startISO/endISO" interval pair
func ParseWindow(raw string) (Window, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("invalid window %q: expected start/end pair", raw)
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[0]))
	if err != nil {
		return Window{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
	if err != nil {
		return Window{}, fmt.Errorf("invalid window end: %w", err)
	}
	if !end.After(start) {
		return Window{}, fmt.Errorf("invalid window %q: end not after start", raw)
	}

	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two intervals share any time
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether the interval [start, end) fits entirely inside w
func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}
