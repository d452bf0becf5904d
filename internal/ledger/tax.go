package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// TaxPolicy holds the flat rates applied to positive net gains per term.
// Rates are fractions, e.g. 0.15 for 15%.
type TaxPolicy struct {
	ShortRate decimal.Decimal
	LongRate  decimal.Decimal
}

// DefaultTaxPolicy returns the 15% STCG / 10% LTCG estimation rates
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{
		ShortRate: decimal.NewFromFloat(0.15),
		LongRate:  decimal.NewFromFloat(0.10),
	}
}

// SummarizeGains nets realized gains per term and estimates the liability.
// Losses offset gains within a term, but a negative term total contributes
// zero tax, never a rebate, and there is no cross-term or carry-forward
// offsetting.
func SummarizeGains(gains []*models.RealizedGain, policy TaxPolicy) models.TaxSummary {
	short := decimal.Zero
	long := decimal.Zero

	for _, g := range gains {
		if g.Term == models.TermShort {
			short = short.Add(g.Gain)
		} else {
			long = long.Add(g.Gain)
		}
	}

	tax := decimal.Zero
	if short.IsPositive() {
		tax = tax.Add(short.Mul(policy.ShortRate))
	}
	if long.IsPositive() {
		tax = tax.Add(long.Mul(policy.LongRate))
	}

	return models.TaxSummary{
		ShortTermGain: short,
		LongTermGain:  long,
		TaxLiability:  tax,
	}
}
