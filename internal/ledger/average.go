package ledger

import "github.com/shopspring/decimal"

// WeightedAverage recomputes the blended per-share cost after buying newQty
// shares at price into an existing position of oldQty shares at oldAvg:
//
//	(oldQty*oldAvg + newQty*price) / (oldQty + newQty)
//
// With oldQty == 0 the result is the new price exactly.
func WeightedAverage(oldQty int64, oldAvg decimal.Decimal, newQty int64, price decimal.Decimal) decimal.Decimal {
	if oldQty <= 0 {
		return price
	}
	oldN := decimal.NewFromInt(oldQty)
	newN := decimal.NewFromInt(newQty)
	total := oldAvg.Mul(oldN).Add(price.Mul(newN))
	return total.Div(oldN.Add(newN))
}
