package repo

import "context"

// OutboundRepo is the marketplace send surface.
// The real browser automation is a placeholder; mock mode short-circuits it.
type OutboundRepo interface {
	// SendReply sends a reply into the buyer's thread
	SendReply(ctx context.Context, listingID, buyerID, text string) error

	// StageDraft types a draft into the reply box without sending (shadow mode)
	StageDraft(ctx context.Context, listingID, buyerID, text string) error
}
