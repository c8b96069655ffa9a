package data

import (
	"context"
	"sync"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// conversationRepo is the in-memory conversation store.
// The mutex keeps appends for one key strictly ordered under concurrent
// requests; history is bounded by the domain aggregate on every append.
type conversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation
}

// NewConversationRepo creates an in-memory conversation repository
func NewConversationRepo() repo.ConversationRepo {
	return &conversationRepo{conversations: make(map[string]*domain.Conversation)}
}

// Append records a message and returns a copy of the bounded history
func (r *conversationRepo) Append(ctx context.Context, listingID, buyerID string, msg domain.BuyerMessage) ([]domain.BuyerMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := listingID + ":" + buyerID
	conv, ok := r.conversations[key]
	if !ok {
		conv = &domain.Conversation{ListingID: listingID, BuyerID: buyerID}
		r.conversations[key] = conv
	}
	conv.Append(msg)

	return copyHistory(conv.History), nil
}

// Get returns a copy of the bounded history for the pair
func (r *conversationRepo) Get(ctx context.Context, listingID, buyerID string) ([]domain.BuyerMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[listingID+":"+buyerID]
	if !ok {
		return nil, nil
	}
	return copyHistory(conv.History), nil
}

// Clear drops the history for the pair
func (r *conversationRepo) Clear(ctx context.Context, listingID, buyerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, listingID+":"+buyerID)
	return nil
}

func copyHistory(history []domain.BuyerMessage) []domain.BuyerMessage {
	out := make([]domain.BuyerMessage, len(history))
	copy(out, history)
	return out
}
