package usecase

import (
	"time"

	"github.com/upseller/upseller/internal/biz/domain"
)

const (
	// slotGridStep is the stepping interval for candidate slot starts
	slotGridStep = 30 * time.Minute

	// slotLeadTime is the minimum notice before the earliest suggested slot
	slotLeadTime = 30 * time.Minute

	// DefaultWindowCount is the number of slots suggested when unspecified
	DefaultWindowCount = 2
)

// SlotSuggesterUsecase computes conflict-free meetup slots from seller
// availability windows and external busy intervals. Deterministic for a
// fixed clock; tests inject one.
type SlotSuggesterUsecase struct {
	now func() time.Time
}

// NewSlotSuggesterUsecase creates a new slot suggester usecase
func NewSlotSuggesterUsecase(now func() time.Time) *SlotSuggesterUsecase {
	if now == nil {
		now = time.Now
	}
	return &SlotSuggesterUsecase{now: now}
}

// SuggestSlots returns up to windowCount slot start times, earliest first.
// Windows are scanned in the order given. Within a window the cursor starts
// at max(window start, now + lead rounded up to the next half hour) and
// steps on the 30-minute grid; a candidate conflicting with a busy interval
// pushes the cursor past that interval. A candidate is kept iff
// [cursor, cursor+duration) fits inside the window and overlaps no busy
// interval. No windows, or no room, yields an empty result without error.
func (uc *SlotSuggesterUsecase) SuggestSlots(
	windows []domain.Window,
	busy []domain.Window,
	windowCount int,
	duration time.Duration,
) []time.Time {
	if windowCount <= 0 {
		windowCount = DefaultWindowCount
	}
	if duration <= 0 {
		duration = domain.DefaultAppointmentDuration
	}

	earliest := roundUpToHalfHour(uc.now().Add(slotLeadTime))

	var slots []time.Time
	for _, w := range windows {
		cursor := w.Start
		if earliest.After(cursor) {
			cursor = earliest
		}

		for len(slots) < windowCount {
			end := cursor.Add(duration)
			if end.After(w.End) {
				break
			}

			candidate := domain.Window{Start: cursor, End: end}
			if conflict, ok := firstConflict(candidate, busy); ok {
				// Jump past the conflicting interval, but never move
				// backwards relative to the grid step
				next := conflict.End
				if stepped := cursor.Add(slotGridStep); stepped.After(next) {
					next = stepped
				}
				cursor = next
				continue
			}

			slots = append(slots, cursor)
			cursor = cursor.Add(slotGridStep)
		}

		if len(slots) >= windowCount {
			break
		}
	}

	return slots
}

// firstConflict returns the earliest-ending busy interval overlapping the candidate
func firstConflict(candidate domain.Window, busy []domain.Window) (domain.Window, bool) {
	found := false
	var conflict domain.Window
	for _, b := range busy {
		if !candidate.Overlaps(b) {
			continue
		}
		if !found || b.End.Before(conflict.End) {
			conflict = b
			found = true
		}
	}
	return conflict, found
}

// roundUpToHalfHour rounds t up to the next :00 or :30 boundary
func roundUpToHalfHour(t time.Time) time.Time {
	truncated := t.Truncate(slotGridStep)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(slotGridStep)
}
