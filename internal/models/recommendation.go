package models

import "github.com/shopspring/decimal"

// Recommendation statuses and actions
const (
	RecommendationStatusEmpty   = "empty"
	RecommendationStatusSuccess = "success"

	RecommendationActionBuy  = "BUY"
	RecommendationActionHold = "HOLD"
)

// Recommendation is the allocation advisor's output. Exactly one action is
// ever returned; overweight findings only contribute to the reason text.
type Recommendation struct {
	Status              string          `json:"status"`
	Action              string          `json:"action,omitempty"`
	Sector              string          `json:"sector,omitempty"`
	SuggestedInstrument string          `json:"suggested_instrument,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	Reason              string          `json:"reason,omitempty"`
	Message             string          `json:"message,omitempty"`
}
