package domain

// ReplyAction represents the structured action attached to a draft reply
type ReplyAction string

const (
	ActionCounter          ReplyAction = "counter"
	ActionAccept           ReplyAction = "accept"
	ActionDecline          ReplyAction = "decline"
	ActionScheduleProposal ReplyAction = "schedule_proposal"
	ActionConfirm          ReplyAction = "confirm"
)

// DraftReply is a proposed outbound message plus negotiation metadata,
// pending either auto-send or human approval. Never mutated after creation.
type DraftReply struct {
	Text              string      `json:"text"`
	Action            ReplyAction `json:"action,omitempty"`
	CounterPrice      int         `json:"counterPrice,omitempty"`
	ProposedTimes     []string    `json:"proposedTimes,omitempty"`
	MeetSpot          string      `json:"meetSpot,omitempty"`
	RequireHumanClick bool        `json:"requireHumanClick,omitempty"`
	SafetyNote        string      `json:"safetyNote,omitempty"`
	IcsPath           string      `json:"icsPath,omitempty"`
}

// NeedsSlotSuggestions reports whether the draft requests scheduling
// without having concrete times attached yet
func (d *DraftReply) NeedsSlotSuggestions() bool {
	return d.Action == ActionScheduleProposal && len(d.ProposedTimes) == 0
}

// FallbackDraft is the safe reply returned when the pipeline fails.
// Buyer-facing flows never surface a raw error.
func FallbackDraft() DraftReply {
	return DraftReply{
		Text:              "Thanks for your interest! Let me get back to you shortly.",
		RequireHumanClick: true,
	}
}
