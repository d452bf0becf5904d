package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverage_FirstBuyIsPrice(t *testing.T) {
	price := decimal.NewFromFloat(123.45)

	avg := WeightedAverage(0, decimal.Zero, 10, price)
	assert.True(t, avg.Equal(price))
}

func TestWeightedAverage_BlendsTwoBuys(t *testing.T) {
	// 10 @ 100 then 10 @ 200 -> 150
	avg := WeightedAverage(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, avg.Equal(decimal.NewFromInt(150)), "avg was %s", avg)
}

func TestWeightedAverage_UnevenQuantities(t *testing.T) {
	// 30 @ 100 then 10 @ 140 -> (3000 + 1400) / 40 = 110
	avg := WeightedAverage(30, decimal.NewFromInt(100), 10, decimal.NewFromInt(140))
	assert.True(t, avg.Equal(decimal.NewFromInt(110)), "avg was %s", avg)
}

func TestWeightedAverage_IterativeMatchesFormula(t *testing.T) {
	// Folding N buys one at a time must equal the direct weighted mean
	buys := []struct {
		qty   int64
		price decimal.Decimal
	}{
		{5, decimal.NewFromFloat(102.50)},
		{15, decimal.NewFromFloat(98.20)},
		{7, decimal.NewFromFloat(110.00)},
		{23, decimal.NewFromFloat(101.75)},
	}

	var qty int64
	avg := decimal.Zero
	totalCost := decimal.Zero
	for _, b := range buys {
		avg = WeightedAverage(qty, avg, b.qty, b.price)
		qty += b.qty
		totalCost = totalCost.Add(b.price.Mul(decimal.NewFromInt(b.qty)))
	}

	direct := totalCost.Div(decimal.NewFromInt(qty))
	assert.True(t, avg.Sub(direct).Abs().LessThan(decimal.New(1, -10)),
		"iterative %s vs direct %s", avg, direct)
}
