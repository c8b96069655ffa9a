package domain

// SellTimeFrame classifies how urgently the seller wants the item gone
type SellTimeFrame string

const (
	SellOneDay   SellTimeFrame = "one_day"
	SellOneWeek  SellTimeFrame = "one_week"
	SellOneMonth SellTimeFrame = "one_month"
)

// SellerContext carries the negotiation policy parameters for one call
type SellerContext struct {
	TargetPrice     int           `json:"targetPrice"`
	LowestPrice     int           `json:"lowestPrice"`
	SellTimeFrame   SellTimeFrame `json:"sellTimeFrame"`
	MeetingLocation string        `json:"meetingLocation,omitempty"`
	SellerName      string        `json:"sellerName,omitempty"`
	ItemDescription string        `json:"itemDescription,omitempty"`
	ItemCondition   string        `json:"itemCondition,omitempty"`
}

// MeetSpotOr returns the configured meeting location, or the fallback
func (s *SellerContext) MeetSpotOr(fallback string) string {
	if s.MeetingLocation != "" {
		return s.MeetingLocation
	}
	return fallback
}

// Valid reports whether the context carries a usable price policy
func (s *SellerContext) Valid() bool {
	return s.TargetPrice > 0 && s.LowestPrice > 0 && s.LowestPrice <= s.TargetPrice
}
