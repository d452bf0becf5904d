package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/portfolio-ledger/internal/models"
)

func day(offset int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func lot(id int64, buyDate time.Time, price float64, remaining int64) *models.BuyLot {
	return &models.BuyLot{
		ID:                id,
		BuyDate:           buyDate,
		BuyPrice:          decimal.NewFromFloat(price),
		InitialQuantity:   remaining,
		RemainingQuantity: remaining,
	}
}

func TestConsumeLots_SingleLotPartial(t *testing.T) {
	lots := []*models.BuyLot{lot(1, day(0), 100, 50)}

	consumptions, err := ConsumeLots(lots, 20, decimal.NewFromInt(110), day(30))
	require.NoError(t, err)
	require.Len(t, consumptions, 1)

	c := consumptions[0]
	assert.Equal(t, int64(1), c.LotID)
	assert.Equal(t, int64(20), c.Quantity)
	assert.Equal(t, int64(30), c.Remaining)
	// 20 × (110 − 100)
	assert.True(t, c.Gain.Equal(decimal.NewFromInt(200)), "gain was %s", c.Gain)
	assert.Equal(t, models.TermShort, c.Term)
}

func TestConsumeLots_OldestLotConsumedFirst(t *testing.T) {
	// Oldest lot must be fully drained before the next is touched
	lots := []*models.BuyLot{
		lot(1, day(0), 100, 30),
		lot(2, day(10), 120, 40),
	}

	consumptions, err := ConsumeLots(lots, 50, decimal.NewFromInt(130), day(60))
	require.NoError(t, err)
	require.Len(t, consumptions, 2)

	assert.Equal(t, int64(1), consumptions[0].LotID)
	assert.Equal(t, int64(30), consumptions[0].Quantity)
	assert.Equal(t, int64(0), consumptions[0].Remaining)

	assert.Equal(t, int64(2), consumptions[1].LotID)
	assert.Equal(t, int64(20), consumptions[1].Quantity)
	assert.Equal(t, int64(20), consumptions[1].Remaining)
}

func TestConsumeLots_QuantitiesBalance(t *testing.T) {
	lots := []*models.BuyLot{
		lot(1, day(0), 90, 10),
		lot(2, day(1), 95, 25),
		lot(3, day(2), 100, 40),
	}

	consumptions, err := ConsumeLots(lots, 60, decimal.NewFromInt(105), day(90))
	require.NoError(t, err)

	var consumed, remainingDecrease int64
	for i, c := range consumptions {
		consumed += c.Quantity
		remainingDecrease += lots[i].RemainingQuantity - c.Remaining
	}
	assert.Equal(t, int64(60), consumed)
	assert.Equal(t, int64(60), remainingDecrease)
}

func TestConsumeLots_SkipsExhaustedLots(t *testing.T) {
	lots := []*models.BuyLot{
		lot(1, day(0), 100, 0),
		lot(2, day(5), 110, 15),
	}

	consumptions, err := ConsumeLots(lots, 10, decimal.NewFromInt(120), day(20))
	require.NoError(t, err)
	require.Len(t, consumptions, 1)
	assert.Equal(t, int64(2), consumptions[0].LotID)
}

func TestConsumeLots_MixedTermsAcrossBoundary(t *testing.T) {
	// A single sell spanning lots either side of the 365-day boundary
	// yields both LONG and SHORT gain rows
	sellDate := day(400)
	lots := []*models.BuyLot{
		lot(1, day(0), 100, 10),   // held 400 days -> LONG
		lot(2, day(200), 110, 10), // held 200 days -> SHORT
	}

	consumptions, err := ConsumeLots(lots, 15, decimal.NewFromInt(120), sellDate)
	require.NoError(t, err)
	require.Len(t, consumptions, 2)
	assert.Equal(t, models.TermLong, consumptions[0].Term)
	assert.Equal(t, models.TermShort, consumptions[1].Term)
}

func TestConsumeLots_LotsExhaustedIsInconsistency(t *testing.T) {
	lots := []*models.BuyLot{lot(1, day(0), 100, 5)}

	_, err := ConsumeLots(lots, 10, decimal.NewFromInt(110), day(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLedgerInconsistency)
}

func TestConsumeLots_NoLotsIsInconsistency(t *testing.T) {
	_, err := ConsumeLots(nil, 1, decimal.NewFromInt(110), day(1))
	assert.ErrorIs(t, err, ErrLedgerInconsistency)
}

func TestConsumeLots_RejectsNonPositiveQuantity(t *testing.T) {
	lots := []*models.BuyLot{lot(1, day(0), 100, 5)}

	_, err := ConsumeLots(lots, 0, decimal.NewFromInt(110), day(1))
	assert.Error(t, err)

	_, err = ConsumeLots(lots, -3, decimal.NewFromInt(110), day(1))
	assert.Error(t, err)
}

func TestConsumeLots_NegativeGainOnLoss(t *testing.T) {
	lots := []*models.BuyLot{lot(1, day(0), 150, 10)}

	consumptions, err := ConsumeLots(lots, 10, decimal.NewFromInt(120), day(5))
	require.NoError(t, err)
	// 10 × (120 − 150) = −300
	assert.True(t, consumptions[0].Gain.Equal(decimal.NewFromInt(-300)))
}

func TestClassifyTerm_Boundary(t *testing.T) {
	buy := day(0)

	assert.Equal(t, models.TermShort, ClassifyTerm(buy, buy.AddDate(0, 0, 364)))
	// Exactly 365 days held is still SHORT
	assert.Equal(t, models.TermShort, ClassifyTerm(buy, buy.AddDate(0, 0, 365)))
	assert.Equal(t, models.TermLong, ClassifyTerm(buy, buy.AddDate(0, 0, 366)))
}

func TestIsLongTerm(t *testing.T) {
	buy := day(0)

	assert.False(t, IsLongTerm(buy, buy.AddDate(0, 0, 365)))
	assert.True(t, IsLongTerm(buy, buy.AddDate(0, 0, 366)))
}
