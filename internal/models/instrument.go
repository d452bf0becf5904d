package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SectorUnclassified is the bucket for instruments without a sector
const SectorUnclassified = "Unclassified"

// Instrument represents a tradable security with its latest quote
type Instrument struct {
	ID            int64           `json:"instrument_id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	DayChange     decimal.Decimal `json:"day_change"`
	MomentumScore decimal.Decimal `json:"momentum_score"`
	LastUpdated   time.Time       `json:"last_updated"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SectorLabel returns the instrument's sector, or Unclassified when none is set
func (i *Instrument) SectorLabel() string {
	if i.Sector == "" {
		return SectorUnclassified
	}
	return i.Sector
}

// Label returns a display name like "Apple Inc. (AAPL)"
func (i *Instrument) Label() string {
	if i.Name == "" {
		return i.Symbol
	}
	return i.Name + " (" + i.Symbol + ")"
}
