package domain

// Intent represents the classified purpose of a buyer message
type Intent string

const (
	IntentAvailabilityCheck Intent = "availability_check"
	IntentOffer             Intent = "offer"
	IntentQuestion          Intent = "question"
	IntentScheduleProposal  Intent = "schedule_proposal"
	IntentScamRisk          Intent = "scam_risk"
	IntentLowball           Intent = "lowball"
	IntentBundleInterest    Intent = "bundle_interest"
	IntentConfirmMeet       Intent = "confirm_meet"
)

// Classification is the output of intent detection for one buyer message
type Classification struct {
	Intent          Intent   `json:"intent"`
	OfferPrice      int      `json:"offerPrice,omitempty"`
	ProposedTimeIso string   `json:"proposedTimeIso,omitempty"`
	Questions       []string `json:"questions,omitempty"`
	Flags           []string `json:"flags,omitempty"`
}

// HasOfferPrice reports whether a price was extracted from the message
func (c *Classification) HasOfferPrice() bool {
	return c.OfferPrice > 0
}

// HasFlag checks if a flag is present
func (c *Classification) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
