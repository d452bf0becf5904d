package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade directions recorded in the transaction log
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// Transaction is one append-only audit row per executed buy or sell.
// Rows are never mutated after insert.
type Transaction struct {
	ID           int64           `json:"txn_id"`
	AccountID    int64           `json:"account_id"`
	InstrumentID int64           `json:"instrument_id"`
	Symbol       string          `json:"symbol,omitempty"`
	Type         string          `json:"txn_type"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ExecutedAt   time.Time       `json:"txn_date"`
}
