package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/upseller/upseller/internal/biz/domain"
)

// FlagPotentialScam marks a message that tripped the scam keyword check
const FlagPotentialScam = "potential_scam"

var offerPriceRe = regexp.MustCompile(`\$(\d+)`)

// Keyword sets per category. The sets overlap on raw text (a message can
// contain both "$50" and "meet"), so Classify applies them in a fixed
// precedence order: scam, offer, scheduling, availability, question.
var (
	scamKeywords         = []string{"verification", "code", "scam", "gift card", "zelle me first"}
	offerKeywords        = []string{"$", "offer", "pay"}
	scheduleKeywords     = []string{"when", "meet", "time"}
	availabilityKeywords = []string{"available", "still", "sold"}
)

// ClassifierUsecase maps raw buyer text to an intent classification.
// Pure and total: unmatched text falls through to IntentQuestion.
type ClassifierUsecase struct{}

// NewClassifierUsecase creates a new classifier usecase
func NewClassifierUsecase() *ClassifierUsecase {
	return &ClassifierUsecase{}
}

// Classify detects the intent of a buyer message.
// Precedence: (1) scam/safety keywords, (2) price/offer keywords with the
// first $<integer> match extracted, (3) scheduling keywords,
// (4) availability keywords, (5) default to question.
func (uc *ClassifierUsecase) Classify(text string) domain.Classification {
	lower := strings.ToLower(text)

	if containsAny(lower, scamKeywords) {
		return domain.Classification{
			Intent: domain.IntentScamRisk,
			Flags:  []string{FlagPotentialScam},
		}
	}

	if containsAny(lower, offerKeywords) {
		c := domain.Classification{Intent: domain.IntentOffer}
		if m := offerPriceRe.FindStringSubmatch(lower); m != nil {
			if price, err := strconv.Atoi(m[1]); err == nil {
				c.OfferPrice = price
			}
		}
		return c
	}

	if containsAny(lower, scheduleKeywords) {
		return domain.Classification{Intent: domain.IntentScheduleProposal}
	}

	if containsAny(lower, availabilityKeywords) {
		return domain.Classification{Intent: domain.IntentAvailabilityCheck}
	}

	return domain.Classification{Intent: domain.IntentQuestion}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
