package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the aggregate holding for one account/instrument pair.
// TotalQuantity never goes negative; a row may remain at zero after a full
// sell-out.
type Position struct {
	AccountID     int64           `json:"account_id"`
	InstrumentID  int64           `json:"instrument_id"`
	TotalQuantity int64           `json:"total_quantity"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Holding is a position joined with its instrument, as served by the
// portfolio endpoint and consumed by the allocation advisor.
type Holding struct {
	InstrumentID int64           `json:"instrument_id"`
	Symbol       string          `json:"symbol"`
	Sector       string          `json:"sector,omitempty"`
	Quantity     int64           `json:"total_quantity"`
	AvgBuyPrice  decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// MarketValue returns quantity times current price
func (h *Holding) MarketValue() decimal.Decimal {
	return h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity))
}

// SectorLabel returns the holding's sector, or Unclassified when none is set
func (h *Holding) SectorLabel() string {
	if h.Sector == "" {
		return SectorUnclassified
	}
	return h.Sector
}
