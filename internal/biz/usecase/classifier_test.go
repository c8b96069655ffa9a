package usecase

import (
	"reflect"
	"testing"

	"github.com/upseller/upseller/internal/biz/domain"
)

func TestClassifier_AvailabilityCheck(t *testing.T) {
	uc := NewClassifierUsecase()

	c := uc.Classify("Is this still available?")
	if c.Intent != domain.IntentAvailabilityCheck {
		t.Errorf("Expected availability_check, got %s", c.Intent)
	}
}

func TestClassifier_OfferExtractsPrice(t *testing.T) {
	uc := NewClassifierUsecase()

	cases := []struct {
		text  string
		price int
	}{
		{"I'll offer $50", 50},
		{"$80", 80},
		{"would you take $125 cash?", 125},
		{"can I pay with venmo?", 0}, // offer keyword, no price
	}
	for _, tc := range cases {
		c := uc.Classify(tc.text)
		if c.Intent != domain.IntentOffer {
			t.Errorf("%q: expected offer, got %s", tc.text, c.Intent)
		}
		if c.OfferPrice != tc.price {
			t.Errorf("%q: expected price %d, got %d", tc.text, tc.price, c.OfferPrice)
		}
	}
}

func TestClassifier_ScamPrecedesOffer(t *testing.T) {
	uc := NewClassifierUsecase()

	// Contains both a price and a scam keyword; scam check runs first
	c := uc.Classify("I'll pay $50 but send me a verification code first")
	if c.Intent != domain.IntentScamRisk {
		t.Errorf("Expected scam_risk, got %s", c.Intent)
	}
	if !c.HasFlag(FlagPotentialScam) {
		t.Error("Expected potential_scam flag")
	}
}

func TestClassifier_OfferPrecedesScheduling(t *testing.T) {
	uc := NewClassifierUsecase()

	// Contains both "$50" and "meet"; offer check runs before scheduling
	c := uc.Classify("$50 and we can meet today")
	if c.Intent != domain.IntentOffer {
		t.Errorf("Expected offer, got %s", c.Intent)
	}
	if c.OfferPrice != 50 {
		t.Errorf("Expected price 50, got %d", c.OfferPrice)
	}
}

func TestClassifier_Scheduling(t *testing.T) {
	uc := NewClassifierUsecase()

	c := uc.Classify("When can we meet?")
	if c.Intent != domain.IntentScheduleProposal {
		t.Errorf("Expected schedule_proposal, got %s", c.Intent)
	}
}

func TestClassifier_DefaultsToQuestion(t *testing.T) {
	uc := NewClassifierUsecase()

	c := uc.Classify("Does it come with the original box?")
	if c.Intent != domain.IntentQuestion {
		t.Errorf("Expected question, got %s", c.Intent)
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	uc := NewClassifierUsecase()

	text := "I'll offer $50, can we meet tomorrow?"
	first := uc.Classify(text)
	second := uc.Classify(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Classification not idempotent: %+v vs %+v", first, second)
	}
}
