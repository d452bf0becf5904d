package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax-term classifications for realized gains
const (
	TermShort = "SHORT"
	TermLong  = "LONG"
)

// RealizedGain records one lot-consumption event. A single sell spanning
// multiple lots emits one row per lot touched. Rows are immutable; they are
// the permanent ledger backing the tax report.
type RealizedGain struct {
	ID           int64           `json:"gain_id"`
	AccountID    int64           `json:"account_id"`
	InstrumentID int64           `json:"instrument_id"`
	LotID        int64           `json:"buy_lot_id"`
	Symbol       string          `json:"symbol,omitempty"`
	Quantity     int64           `json:"quantity"`
	BuyDate      time.Time       `json:"buy_date"`
	SellDate     time.Time       `json:"sell_date"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	Gain         decimal.Decimal `json:"total_gain"`
	Term         string          `json:"term"`
}

// TaxSummary holds per-term gain totals and the estimated liability
type TaxSummary struct {
	ShortTermGain decimal.Decimal `json:"short_term_gain"`
	LongTermGain  decimal.Decimal `json:"long_term_gain"`
	TaxLiability  decimal.Decimal `json:"tax_liability"`
}

// TaxReport is the full tax-report response: every realized-gain row plus
// the aggregated summary.
type TaxReport struct {
	Details []*RealizedGain `json:"details"`
	Summary TaxSummary      `json:"summary"`
}
