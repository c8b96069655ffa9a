package domain

import "time"

// MessageSource represents the channel a buyer message arrived from
type MessageSource string

const (
	SourceMock     MessageSource = "mock"
	SourceFacebook MessageSource = "facebook"
)

// BuyerMessage represents one inbound message from a buyer
type BuyerMessage struct {
	ID        string        `json:"id"`
	ListingID string        `json:"listingId"`
	BuyerID   string        `json:"buyerId"`
	Text      string        `json:"text"`
	Ts        time.Time     `json:"ts"`
	Source    MessageSource `json:"source"`
}

// ConversationKey returns the key that groups messages into one conversation
func (m *BuyerMessage) ConversationKey() string {
	return m.ListingID + ":" + m.BuyerID
}

// IsAfter checks if the message is after the specified time
func (m *BuyerMessage) IsAfter(t time.Time) bool {
	return m.Ts.After(t)
}
