package repo

import (
	"context"

	"github.com/upseller/upseller/internal/biz/domain"
)

// ConversationRepo is the conversation store interface.
// Keyed per (listing, buyer) pair; history is bounded to the most recent
// entries on every append. Appends for one key must be strictly ordered.
type ConversationRepo interface {
	// Append records a message and returns the current bounded history
	Append(ctx context.Context, listingID, buyerID string, msg domain.BuyerMessage) ([]domain.BuyerMessage, error)

	// Get returns the bounded history for the pair
	Get(ctx context.Context, listingID, buyerID string) ([]domain.BuyerMessage, error)

	// Clear drops the history for the pair
	Clear(ctx context.Context, listingID, buyerID string) error
}
