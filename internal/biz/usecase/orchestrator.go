package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/metrics"
)

// OrchestratorUsecase sequences the inbound-message pipeline:
// conversation append, classification, negotiation, optional slot
// enrichment, and mode-dependent dispatch. Buyer-facing flows never
// hard-fail: any pipeline error yields the safe fallback draft.
type OrchestratorUsecase struct {
	conversations repo.ConversationRepo
	listings      repo.ListingRepo
	messenger     repo.MessengerRepo
	scheduler     repo.SchedulerRepo
	now           func() time.Time
	log           zerolog.Logger
	metrics       *metrics.Metrics
}

// NewOrchestratorUsecase creates a new orchestrator usecase
func NewOrchestratorUsecase(
	conversations repo.ConversationRepo,
	listings repo.ListingRepo,
	messenger repo.MessengerRepo,
	scheduler repo.SchedulerRepo,
	now func() time.Time,
	log zerolog.Logger,
	m *metrics.Metrics,
) *OrchestratorUsecase {
	if now == nil {
		now = time.Now
	}
	return &OrchestratorUsecase{
		conversations: conversations,
		listings:      listings,
		messenger:     messenger,
		scheduler:     scheduler,
		now:           now,
		log:           log,
		metrics:       m,
	}
}

// HandleInboundMessage processes one buyer message and returns the draft
// reply. Mode decides dispatch only: mock auto-sends, shadow stages the
// draft for human approval.
func (uc *OrchestratorUsecase) HandleInboundMessage(ctx context.Context, msg domain.BuyerMessage, mode domain.Mode) domain.DraftReply {
	draft, err := uc.process(ctx, msg, mode)
	if err != nil {
		uc.log.Error().Err(err).
			Str("listing_id", msg.ListingID).
			Str("buyer_id", msg.BuyerID).
			Msg("pipeline failed, returning safe fallback draft")
		uc.metrics.IncPipelineFailure()
		return domain.FallbackDraft()
	}
	return draft
}

func (uc *OrchestratorUsecase) process(ctx context.Context, msg domain.BuyerMessage, mode domain.Mode) (domain.DraftReply, error) {
	history, err := uc.conversations.Append(ctx, msg.ListingID, msg.BuyerID, msg)
	if err != nil {
		return domain.DraftReply{}, fmt.Errorf("append conversation: %w", err)
	}

	classification, err := uc.messenger.Classify(ctx, msg)
	if err != nil {
		// A classification outage degrades to the generic-question path
		// rather than killing the pipeline.
		uc.log.Warn().Err(err).Str("message_id", msg.ID).Msg("classify failed, defaulting to question intent")
		classification = domain.Classification{Intent: domain.IntentQuestion}
	}
	uc.metrics.IncMessageProcessed(string(classification.Intent))

	listing, err := uc.listings.Get(ctx, msg.ListingID)
	if err != nil {
		return domain.DraftReply{}, fmt.Errorf("get listing: %w", err)
	}

	seller := uc.sellerContextFor(listing)

	// History excludes the just-appended current message; it is passed
	// separately as the current turn.
	trimmed := trimCurrent(history, msg.ID)

	draft, err := uc.messenger.Negotiate(ctx, msg, classification, seller, trimmed)
	if err != nil {
		return domain.DraftReply{}, fmt.Errorf("negotiate: %w", err)
	}

	if draft.NeedsSlotSuggestions() {
		draft.ProposedTimes = uc.suggestedSlots(ctx, listing)
	}

	uc.dispatch(ctx, msg, draft, mode)

	return draft, nil
}

// sellerContextFor derives the negotiation policy from the listing.
// Without a listing a permissive default applies.
func (uc *OrchestratorUsecase) sellerContextFor(listing *domain.Listing) domain.SellerContext {
	if listing == nil {
		return domain.SellerContext{
			TargetPrice:   75,
			LowestPrice:   60,
			SellTimeFrame: domain.SellOneWeek,
		}
	}

	timeframe := domain.SellOneMonth
	if deadline := listing.Deadline(); !deadline.IsZero() {
		switch until := deadline.Sub(uc.now()); {
		case until <= 24*time.Hour:
			timeframe = domain.SellOneDay
		case until <= 7*24*time.Hour:
			timeframe = domain.SellOneWeek
		}
	}

	return domain.SellerContext{
		TargetPrice:     listing.ListPrice,
		LowestPrice:     listing.MinPrice,
		SellTimeFrame:   timeframe,
		MeetingLocation: listing.FirstMeetSpot(),
		ItemDescription: listing.Title,
	}
}

// suggestedSlots fetches slots from the scheduler, falling back to two
// canned times when the collaborator is unavailable
func (uc *OrchestratorUsecase) suggestedSlots(ctx context.Context, listing *domain.Listing) []string {
	slots, err := uc.scheduler.SuggestSlots(ctx, listing, DefaultWindowCount, int(domain.DefaultAppointmentDuration.Minutes()))
	if err != nil || len(slots) == 0 {
		if err != nil {
			uc.log.Warn().Err(err).Msg("slot suggestion failed, using default times")
		}
		base := uc.now().Add(2 * time.Hour).UTC().Truncate(time.Minute)
		return []string{
			base.Format(time.RFC3339),
			base.Add(45 * time.Minute).Format(time.RFC3339),
		}
	}
	uc.metrics.AddSlotsSuggested(len(slots))
	return slots
}

// dispatch sends or stages the draft per mode. Dispatch failures are
// logged but never affect the returned draft.
func (uc *OrchestratorUsecase) dispatch(ctx context.Context, msg domain.BuyerMessage, draft domain.DraftReply, mode domain.Mode) {
	sent, err := uc.messenger.SendDraft(ctx, msg, draft, mode)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("message_id", msg.ID).
			Str("mode", string(mode)).
			Msg("draft dispatch failed")
		return
	}
	uc.log.Info().
		Str("message_id", msg.ID).
		Str("mode", string(mode)).
		Bool("sent", sent).
		Msg("draft dispatched")
}

func trimCurrent(history []domain.BuyerMessage, currentID string) []domain.BuyerMessage {
	var result []domain.BuyerMessage
	for _, m := range history {
		if m.ID != currentID {
			result = append(result, m)
		}
	}
	return result
}
