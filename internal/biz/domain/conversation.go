package domain

// MaxConversationHistory bounds the history kept per (listing, buyer) pair.
// Oldest messages are evicted first so the negotiation engine never receives
// unbounded context.
const MaxConversationHistory = 10

// Conversation represents the conversation aggregate for one (listing, buyer) pair
type Conversation struct {
	ListingID string
	BuyerID   string
	History   []BuyerMessage
	Current   *BuyerMessage
}

// Key returns the conversation key
func (c *Conversation) Key() string {
	return c.ListingID + ":" + c.BuyerID
}

// Append adds a message and truncates history to the most recent bound
func (c *Conversation) Append(msg BuyerMessage) {
	c.History = append(c.History, msg)
	if len(c.History) > MaxConversationHistory {
		c.History = c.History[len(c.History)-MaxConversationHistory:]
	}
}

// HistoryExcludingCurrent gets history excluding the current message
func (c *Conversation) HistoryExcludingCurrent() []BuyerMessage {
	if c.Current == nil || len(c.History) == 0 {
		return c.History
	}

	var result []BuyerMessage
	for _, m := range c.History {
		if m.ID != c.Current.ID {
			result = append(result, m)
		}
	}
	return result
}
