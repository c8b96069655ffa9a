// Package marketplace holds placeholder hooks for Facebook Marketplace
// browser automation. The real automation is out of scope for the demo;
// these stubs log what the automation would do and simulate its latency.
package marketplace

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Automation drives the marketplace browser session
type Automation struct {
	log zerolog.Logger
}

// NewAutomation creates the automation stub
func NewAutomation(log zerolog.Logger) *Automation {
	return &Automation{log: log}
}

// EnsureSession verifies the marketplace session is active, prompting for
// login if needed
func (a *Automation) EnsureSession(ctx context.Context) error {
	a.log.Info().Msg("[placeholder] ensuring marketplace session is active")
	return a.simulate(ctx, time.Second)
}

// OpenListingThread opens the inbox thread for a listing and buyer
func (a *Automation) OpenListingThread(ctx context.Context, listingID, buyerID string) error {
	a.log.Info().
		Str("listing_id", listingID).
		Str("buyer_id", buyerID).
		Msg("[placeholder] opening listing inbox thread")
	return a.simulate(ctx, 2*time.Second)
}

// ReadLastMessage reads the most recent buyer message from the open thread
func (a *Automation) ReadLastMessage(ctx context.Context) (string, error) {
	a.log.Info().Msg("[placeholder] reading last message from thread")
	if err := a.simulate(ctx, 500*time.Millisecond); err != nil {
		return "", err
	}
	return "Is this still available?", nil
}

// TypeDraft types a draft into the reply box without sending
func (a *Automation) TypeDraft(ctx context.Context, text string) error {
	a.log.Info().Int("chars", len(text)).Msg("[placeholder] typing draft reply")
	return a.simulate(ctx, time.Second)
}

// SendReply sends a reply into the open thread
func (a *Automation) SendReply(ctx context.Context, text string) error {
	a.log.Info().Int("chars", len(text)).Msg("[placeholder] sending reply")
	return a.simulate(ctx, time.Second)
}

func (a *Automation) simulate(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
