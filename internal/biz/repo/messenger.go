package repo

import (
	"context"

	"github.com/upseller/upseller/internal/biz/domain"
)

// MessengerRepo is the negotiation collaborator interface used by the
// orchestrator. Served locally in the messenger service and remotely
// (HTTP) from the master service.
type MessengerRepo interface {
	// Classify maps a buyer message to an intent classification
	Classify(ctx context.Context, msg domain.BuyerMessage) (domain.Classification, error)

	// Negotiate produces a draft reply for a classified message
	Negotiate(ctx context.Context, msg domain.BuyerMessage, c domain.Classification, seller domain.SellerContext, history []domain.BuyerMessage) (domain.DraftReply, error)

	// SendDraft dispatches or stages a draft according to mode.
	// Returns whether the reply was actually sent.
	SendDraft(ctx context.Context, msg domain.BuyerMessage, draft domain.DraftReply, mode domain.Mode) (bool, error)
}
