package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyLot is a discrete batch of shares acquired at one time and price.
// Lots are immutable except for RemainingQuantity, which only decreases as
// sells consume them FIFO. Exhausted lots stay in the ledger with
// remaining_quantity = 0; they are never deleted.
type BuyLot struct {
	ID                int64           `json:"lot_id"`
	AccountID         int64           `json:"account_id"`
	InstrumentID      int64           `json:"instrument_id"`
	Symbol            string          `json:"symbol,omitempty"`
	BuyDate           time.Time       `json:"buy_date"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	InitialQuantity   int64           `json:"initial_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Open reports whether the lot still has unconsumed shares
func (l *BuyLot) Open() bool {
	return l.RemainingQuantity > 0
}
