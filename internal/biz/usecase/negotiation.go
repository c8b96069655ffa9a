package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/metrics"
)

// generatorTimeout bounds every text-generation collaborator call
const generatorTimeout = 30 * time.Second

// NegotiationUsecase produces a draft reply for a classified buyer message.
// Two interchangeable strategies: the text-generation collaborator when one
// is configured, and the deterministic rule strategy otherwise. Generator
// failures fall back to the rules silently; the fallback is observable only
// through logs and metrics.
type NegotiationUsecase struct {
	generator repo.GeneratorRepo // nil disables the generator strategy
	now       func() time.Time
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// NewNegotiationUsecase creates a new negotiation usecase
func NewNegotiationUsecase(generator repo.GeneratorRepo, now func() time.Time, log zerolog.Logger, m *metrics.Metrics) *NegotiationUsecase {
	if now == nil {
		now = time.Now
	}
	return &NegotiationUsecase{generator: generator, now: now, log: log, metrics: m}
}

// Negotiate produces a draft reply.
// The rule strategy is authoritative for the numeric offer policy; the
// generator strategy only shapes the wording and may request scheduling via
// the sentinel marker.
func (uc *NegotiationUsecase) Negotiate(
	ctx context.Context,
	msg domain.BuyerMessage,
	c domain.Classification,
	seller domain.SellerContext,
	history []domain.BuyerMessage,
) domain.DraftReply {
	if uc.generator == nil {
		return uc.RuleBasedReply(c, seller)
	}

	draft, err := uc.generateReply(ctx, msg, seller, history)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("listing_id", msg.ListingID).
			Str("buyer_id", msg.BuyerID).
			Msg("generator failed, falling back to rule strategy")
		uc.metrics.IncGeneratorFallback()
		return uc.RuleBasedReply(c, seller)
	}
	return draft
}

// generateReply runs the generator strategy. Any failure, timeout, or empty
// completion is returned as an error for the caller's explicit fallback.
func (uc *NegotiationUsecase) generateReply(
	ctx context.Context,
	msg domain.BuyerMessage,
	seller domain.SellerContext,
	history []domain.BuyerMessage,
) (domain.DraftReply, error) {
	genCtx, cancel := context.WithTimeout(ctx, generatorTimeout)
	defer cancel()

	started := uc.now()
	text, err := uc.generator.Generate(genCtx, SellerSystemPrompt(seller), BuildChatTurns(history, msg))
	uc.metrics.ObserveGeneratorDuration(uc.now().Sub(started).Seconds())
	if err != nil {
		return domain.DraftReply{}, fmt.Errorf("generate reply: %w", err)
	}

	cleaned, wantsScheduling := ParseSchedulingSentinel(text)
	if cleaned == "" {
		return domain.DraftReply{}, fmt.Errorf("generator returned empty reply")
	}

	draft := domain.DraftReply{
		Text:     cleaned,
		MeetSpot: seller.MeetSpotOr(""),
	}
	if wantsScheduling {
		// Times are left empty; the orchestrator fills them from the
		// slot suggester.
		draft.Action = domain.ActionScheduleProposal
	}
	return draft, nil
}

// RuleBasedReply is the deterministic strategy, dispatched on intent.
// Always available; used directly when no generator is configured and as
// the fallback when the generator fails.
func (uc *NegotiationUsecase) RuleBasedReply(c domain.Classification, seller domain.SellerContext) domain.DraftReply {
	spot := seller.MeetSpotOr("a convenient public spot")

	switch c.Intent {
	case domain.IntentAvailabilityCheck:
		return domain.DraftReply{
			Text:          "Yes, this is still available! Are you interested in meeting up to take a look?",
			Action:        domain.ActionScheduleProposal,
			ProposedTimes: uc.defaultProposedTimes(),
			MeetSpot:      spot,
		}

	case domain.IntentOffer:
		return uc.negotiateOffer(c, seller)

	case domain.IntentScamRisk:
		return domain.DraftReply{
			Text:              "Thanks for your interest, but I prefer to keep transactions simple with cash payment at meetup. Let me know if you'd like to arrange a time to meet!",
			Action:            domain.ActionDecline,
			RequireHumanClick: true,
			SafetyNote:        "Potential scam detected - verification code request",
		}

	case domain.IntentScheduleProposal:
		return domain.DraftReply{
			Text:          fmt.Sprintf("Great! I have some availability coming up. We can meet at %s - would one of these times work for you?", spot),
			Action:        domain.ActionScheduleProposal,
			ProposedTimes: uc.defaultProposedTimes(),
			MeetSpot:      spot,
		}

	case domain.IntentQuestion, domain.IntentLowball, domain.IntentBundleInterest, domain.IntentConfirmMeet:
		return genericAcknowledgement()

	default:
		return genericAcknowledgement()
	}
}

// negotiateOffer applies the offer policy.
//
// one_day: accept anything at or above the floor, otherwise counter at the
// floor for a quick sale. one_week/one_month: accept at or above target;
// between floor and target, counter halfway between offer and target; below
// floor, hold at target for one_month, otherwise counter halfway between
// floor and target. The floor itself is never disclosed.
func (uc *NegotiationUsecase) negotiateOffer(c domain.Classification, seller domain.SellerContext) domain.DraftReply {
	spot := seller.MeetSpotOr("a convenient public spot")

	if !c.HasOfferPrice() {
		return domain.DraftReply{
			Text:              "I'm open to reasonable offers. What price did you have in mind?",
			RequireHumanClick: true,
		}
	}

	offer := c.OfferPrice

	if seller.SellTimeFrame == domain.SellOneDay {
		if offer >= seller.LowestPrice {
			return acceptDraft(uc.defaultProposedTimes(), spot)
		}
		return domain.DraftReply{
			Text:         fmt.Sprintf("I can't do $%d, but I could do $%d for a quick sale today.", offer, seller.LowestPrice),
			Action:       domain.ActionCounter,
			CounterPrice: seller.LowestPrice,
			MeetSpot:     spot,
		}
	}

	if offer >= seller.TargetPrice {
		return acceptDraft(uc.defaultProposedTimes(), spot)
	}

	if offer >= seller.LowestPrice {
		counter := roundHalf(offer, seller.TargetPrice)
		return domain.DraftReply{
			Text:         fmt.Sprintf("I can't do $%d, but I could do $%d.", offer, counter),
			Action:       domain.ActionCounter,
			CounterPrice: counter,
			MeetSpot:     spot,
		}
	}

	// Below the floor: hold at target when there is time to wait
	counter := seller.TargetPrice
	if seller.SellTimeFrame != domain.SellOneMonth {
		counter = roundHalf(seller.LowestPrice, seller.TargetPrice)
	}
	return domain.DraftReply{
		Text:         fmt.Sprintf("Thanks for the offer! I'm looking for something closer to $%d. Would you be interested in meeting at $%d?", seller.TargetPrice, counter),
		Action:       domain.ActionCounter,
		CounterPrice: counter,
		MeetSpot:     spot,
	}
}

// defaultProposedTimes suggests two starts roughly two hours out,
// 45 minutes apart, pending refinement by the slot suggester
func (uc *NegotiationUsecase) defaultProposedTimes() []string {
	base := uc.now().Add(2 * time.Hour).UTC().Truncate(time.Minute)
	return []string{
		base.Format(time.RFC3339),
		base.Add(45 * time.Minute).Format(time.RFC3339),
	}
}

func acceptDraft(times []string, spot string) domain.DraftReply {
	return domain.DraftReply{
		Text:          "That sounds reasonable! When would be a good time to meet up?",
		Action:        domain.ActionAccept,
		ProposedTimes: times,
		MeetSpot:      spot,
	}
}

func genericAcknowledgement() domain.DraftReply {
	return domain.DraftReply{
		Text:              "Thanks for your message! Let me know if you have any other questions or if you'd like to schedule a time to meet.",
		RequireHumanClick: true,
	}
}

// roundHalf returns the midpoint of a and b rounded to the nearest dollar
func roundHalf(a, b int) int {
	return int(math.Round(float64(a+b) / 2))
}
