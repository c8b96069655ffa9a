package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// Mock implementations

type mockGenerator struct {
	reply string
	err   error
	calls int
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt string, turns []repo.ChatTurn) (string, error) {
	m.calls++
	return m.reply, m.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2025, 8, 16, 18, 0, 0, 0, time.UTC)

func newRuleEngine() *NegotiationUsecase {
	return NewNegotiationUsecase(nil, fixedClock(testNow), zerolog.Nop(), nil)
}

func sellerCtx(timeframe domain.SellTimeFrame) domain.SellerContext {
	return domain.SellerContext{
		TargetPrice:     75,
		LowestPrice:     60,
		SellTimeFrame:   timeframe,
		MeetingLocation: "Provo Rec Center parking lot",
	}
}

func offerOf(price int) domain.Classification {
	return domain.Classification{Intent: domain.IntentOffer, OfferPrice: price}
}

func TestNegotiation_AvailabilityCheck(t *testing.T) {
	uc := newRuleEngine()

	draft := uc.RuleBasedReply(domain.Classification{Intent: domain.IntentAvailabilityCheck}, sellerCtx(domain.SellOneWeek))

	if draft.Action != domain.ActionScheduleProposal {
		t.Errorf("Expected schedule_proposal, got %s", draft.Action)
	}
	if len(draft.ProposedTimes) != 2 {
		t.Errorf("Expected 2 proposed times, got %d", len(draft.ProposedTimes))
	}
	if draft.MeetSpot != "Provo Rec Center parking lot" {
		t.Errorf("Expected meet spot carried, got %q", draft.MeetSpot)
	}
}

func TestNegotiation_OneDayAcceptsAtOrAboveFloor(t *testing.T) {
	uc := newRuleEngine()
	seller := sellerCtx(domain.SellOneDay)

	for _, price := range []int{60, 61, 70, 75, 100} {
		draft := uc.RuleBasedReply(offerOf(price), seller)
		if draft.Action != domain.ActionAccept {
			t.Errorf("offer $%d: expected accept, got %s", price, draft.Action)
		}
	}
}

func TestNegotiation_OneDayCountersAtFloor(t *testing.T) {
	uc := newRuleEngine()
	seller := sellerCtx(domain.SellOneDay)

	for _, price := range []int{1, 40, 59} {
		draft := uc.RuleBasedReply(offerOf(price), seller)
		if draft.Action != domain.ActionCounter {
			t.Errorf("offer $%d: expected counter, got %s", price, draft.Action)
		}
		if draft.CounterPrice != seller.LowestPrice {
			t.Errorf("offer $%d: expected counter at floor %d, got %d", price, seller.LowestPrice, draft.CounterPrice)
		}
	}
}

func TestNegotiation_StandardMidpointCounter(t *testing.T) {
	uc := newRuleEngine()

	for _, timeframe := range []domain.SellTimeFrame{domain.SellOneWeek, domain.SellOneMonth} {
		seller := sellerCtx(timeframe)
		for price := seller.LowestPrice; price < seller.TargetPrice; price++ {
			draft := uc.RuleBasedReply(offerOf(price), seller)
			if draft.Action != domain.ActionCounter {
				t.Fatalf("%s offer $%d: expected counter, got %s", timeframe, price, draft.Action)
			}
			want := roundHalf(price, seller.TargetPrice)
			if draft.CounterPrice != want {
				t.Errorf("%s offer $%d: expected counter %d, got %d", timeframe, price, want, draft.CounterPrice)
			}
			if draft.CounterPrice < seller.LowestPrice || draft.CounterPrice > seller.TargetPrice {
				t.Errorf("%s offer $%d: counter %d outside [floor, target]", timeframe, price, draft.CounterPrice)
			}
		}
	}
}

func TestNegotiation_BelowFloorOffer(t *testing.T) {
	uc := newRuleEngine()

	// Scenario: offer $50, target 75, floor 60, one_week -> round((60+75)/2) = 68
	draft := uc.RuleBasedReply(offerOf(50), sellerCtx(domain.SellOneWeek))
	if draft.Action != domain.ActionCounter {
		t.Fatalf("Expected counter, got %s", draft.Action)
	}
	if draft.CounterPrice != 68 {
		t.Errorf("Expected counter 68, got %d", draft.CounterPrice)
	}

	// one_month holds at target
	draft = uc.RuleBasedReply(offerOf(50), sellerCtx(domain.SellOneMonth))
	if draft.CounterPrice != 75 {
		t.Errorf("Expected counter at target 75, got %d", draft.CounterPrice)
	}
}

func TestNegotiation_AcceptAtOrAboveTarget(t *testing.T) {
	uc := newRuleEngine()

	// Scenario: offer $80, target 75 -> accept
	draft := uc.RuleBasedReply(offerOf(80), sellerCtx(domain.SellOneWeek))
	if draft.Action != domain.ActionAccept {
		t.Errorf("Expected accept, got %s", draft.Action)
	}

	draft = uc.RuleBasedReply(offerOf(75), sellerCtx(domain.SellOneMonth))
	if draft.Action != domain.ActionAccept {
		t.Errorf("Expected accept at exactly target, got %s", draft.Action)
	}
}

func TestNegotiation_OfferWithoutPrice(t *testing.T) {
	uc := newRuleEngine()

	draft := uc.RuleBasedReply(domain.Classification{Intent: domain.IntentOffer}, sellerCtx(domain.SellOneWeek))
	if !draft.RequireHumanClick {
		t.Error("Expected requireHumanClick for offer without a price")
	}
	if draft.Action != "" {
		t.Errorf("Expected no action, got %s", draft.Action)
	}
}

func TestNegotiation_ScamRisk(t *testing.T) {
	uc := newRuleEngine()

	draft := uc.RuleBasedReply(domain.Classification{
		Intent: domain.IntentScamRisk,
		Flags:  []string{FlagPotentialScam},
	}, sellerCtx(domain.SellOneWeek))

	if draft.Action != domain.ActionDecline {
		t.Errorf("Expected decline, got %s", draft.Action)
	}
	if !draft.RequireHumanClick {
		t.Error("Expected requireHumanClick")
	}
	if draft.SafetyNote == "" {
		t.Error("Expected non-empty safety note")
	}
}

func TestNegotiation_GeneratorReplyWithSentinel(t *testing.T) {
	gen := &mockGenerator{reply: "Sounds good, let's set it up! " + SchedulingSentinel}
	uc := NewNegotiationUsecase(gen, fixedClock(testNow), zerolog.Nop(), nil)

	msg := domain.BuyerMessage{ID: "msg-1", Text: "Deal, $75 works"}
	draft := uc.Negotiate(context.Background(), msg, offerOf(75), sellerCtx(domain.SellOneWeek), nil)

	if draft.Action != domain.ActionScheduleProposal {
		t.Errorf("Expected schedule_proposal from sentinel, got %s", draft.Action)
	}
	if len(draft.ProposedTimes) != 0 {
		t.Error("Expected times left empty for the slot suggester to fill")
	}
	if draft.Text != "Sounds good, let's set it up!" {
		t.Errorf("Expected sentinel stripped, got %q", draft.Text)
	}
}

func TestNegotiation_GeneratorFailureFallsBackSilently(t *testing.T) {
	gen := &mockGenerator{err: errors.New("upstream timeout")}
	uc := NewNegotiationUsecase(gen, fixedClock(testNow), zerolog.Nop(), nil)

	msg := domain.BuyerMessage{ID: "msg-1", Text: "$80"}
	draft := uc.Negotiate(context.Background(), msg, offerOf(80), sellerCtx(domain.SellOneWeek), nil)

	if gen.calls != 1 {
		t.Errorf("Expected 1 generator call, got %d", gen.calls)
	}
	// Rule strategy result, no error surfaced
	if draft.Action != domain.ActionAccept {
		t.Errorf("Expected rule-based accept, got %s", draft.Action)
	}
}

func TestNegotiation_GeneratorEmptyReplyFallsBack(t *testing.T) {
	gen := &mockGenerator{reply: "   "}
	uc := NewNegotiationUsecase(gen, fixedClock(testNow), zerolog.Nop(), nil)

	msg := domain.BuyerMessage{ID: "msg-1", Text: "Is this still available?"}
	draft := uc.Negotiate(context.Background(), msg, domain.Classification{Intent: domain.IntentAvailabilityCheck}, sellerCtx(domain.SellOneWeek), nil)

	if draft.Action != domain.ActionScheduleProposal {
		t.Errorf("Expected rule-based schedule_proposal, got %s", draft.Action)
	}
}

func TestParseSchedulingSentinel(t *testing.T) {
	text, ok := ParseSchedulingSentinel("Sounds good. " + SchedulingSentinel)
	if !ok {
		t.Error("Expected sentinel detected")
	}
	if text != "Sounds good." {
		t.Errorf("Expected stripped text, got %q", text)
	}

	text, ok = ParseSchedulingSentinel("Just a normal reply.")
	if ok {
		t.Error("Expected no sentinel")
	}
	if text != "Just a normal reply." {
		t.Errorf("Unexpected text %q", text)
	}
}
