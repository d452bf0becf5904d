package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// longTermHoldingDays is the holding-period boundary: a lot held strictly
// more than this many days qualifies as LONG.
const longTermHoldingDays = 365

// Consumption describes how much one lot contributed to a sell and the gain
// realized against that lot's cost basis.
type Consumption struct {
	LotID     int64
	BuyDate   time.Time
	BuyPrice  decimal.Decimal
	Quantity  int64
	Remaining int64 // lot remaining_quantity after this consumption
	Gain      decimal.Decimal
	Term      string
}

// ConsumeLots walks lots in the order given, consuming from each until
// quantity is satisfied. Callers must pass open lots in FIFO order
// (buy_date ascending, lot id ascending as tie-break).
//
// One Consumption is produced per lot touched, even when the lot is only
// partially emptied. If the lots run out before quantity is satisfied the
// position tracker and lot ledger disagree; ErrLedgerInconsistency is
// returned and no partial result.
func ConsumeLots(lots []*models.BuyLot, quantity int64, sellPrice decimal.Decimal, sellDate time.Time) ([]Consumption, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("sell quantity must be positive, got %d", quantity)
	}

	remaining := quantity
	consumptions := make([]Consumption, 0, len(lots))

	for _, lot := range lots {
		if remaining <= 0 {
			break
		}
		if lot.RemainingQuantity <= 0 {
			continue
		}

		consumed := lot.RemainingQuantity
		if consumed > remaining {
			consumed = remaining
		}

		gain := sellPrice.Sub(lot.BuyPrice).Mul(decimal.NewFromInt(consumed))
		consumptions = append(consumptions, Consumption{
			LotID:     lot.ID,
			BuyDate:   lot.BuyDate,
			BuyPrice:  lot.BuyPrice,
			Quantity:  consumed,
			Remaining: lot.RemainingQuantity - consumed,
			Gain:      gain,
			Term:      ClassifyTerm(lot.BuyDate, sellDate),
		})
		remaining -= consumed
	}

	if remaining > 0 {
		return nil, fmt.Errorf("%w: %d of %d shares unmatched", ErrLedgerInconsistency, remaining, quantity)
	}

	return consumptions, nil
}

// ClassifyTerm applies the simple 365-day rule: strictly more than 365 days
// between buy and sell is LONG, otherwise SHORT. A lot sold exactly 365 days
// after purchase is still SHORT.
func ClassifyTerm(buyDate, sellDate time.Time) string {
	days := int(sellDate.Sub(buyDate).Hours() / 24)
	if days > longTermHoldingDays {
		return models.TermLong
	}
	return models.TermShort
}

// HoldingDays returns whole days between acquisition and an as-of date
func HoldingDays(buyDate, asOf time.Time) int {
	return int(asOf.Sub(buyDate).Hours() / 24)
}

// IsLongTerm reports whether a lot acquired on buyDate is past the
// long-term holding boundary as of asOf.
func IsLongTerm(buyDate, asOf time.Time) bool {
	return HoldingDays(buyDate, asOf) > longTermHoldingDays
}
