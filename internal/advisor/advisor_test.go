package advisor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// ---------------------------------------------------------------------------
// Mock PortfolioReader
// ---------------------------------------------------------------------------

type mockPortfolioReader struct {
	account    *models.Account
	holdings   []*models.Holding
	oldestLots map[string]*models.BuyLot     // keyed by sector
	candidates map[string]*models.Instrument // keyed by sector
}

func (m *mockPortfolioReader) GetAccount(id int64) (*models.Account, error) {
	return m.account, nil
}

func (m *mockPortfolioReader) GetHoldings(accountID int64) ([]*models.Holding, error) {
	return m.holdings, nil
}

func (m *mockPortfolioReader) OldestOpenLotInSector(accountID int64, sector string) (*models.BuyLot, error) {
	return m.oldestLots[sector], nil
}

func (m *mockPortfolioReader) TopMomentumCandidate(accountID int64, sector string) (*models.Instrument, error) {
	return m.candidates[sector], nil
}

func holding(symbol, sector string, qty int64, price float64) *models.Holding {
	return &models.Holding{
		Symbol:       symbol,
		Sector:       sector,
		Quantity:     qty,
		CurrentPrice: decimal.NewFromFloat(price),
	}
}

func cash(amount int64) *models.Account {
	return &models.Account{ID: 1, CashBalance: decimal.NewFromInt(amount)}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRecommend_EmptyPortfolio(t *testing.T) {
	repo := &mockPortfolioReader{account: cash(100000)}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationStatusEmpty, rec.Status)
	assert.Empty(t, rec.Action)
	assert.Contains(t, rec.Message, "Portfolio is empty")
}

func TestRecommend_OverweightStrictBoundary(t *testing.T) {
	// 100,000 portfolio: Technology 60% (target 25, divergence 35 > 15)
	// is flagged; Finance 40% (divergence 15, not strictly greater) is not.
	repo := &mockPortfolioReader{
		account: cash(5000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 20, 3000), // 60,000
			holding("HDFCBANK", "Finance", 25, 1600), // 40,000
		},
		oldestLots: map[string]*models.BuyLot{
			"Technology": {Symbol: "TCS", BuyDate: time.Now().AddDate(0, 0, -100)},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationStatusSuccess, rec.Status)
	assert.Equal(t, models.RecommendationActionHold, rec.Action)
	assert.Contains(t, rec.Reason, "35.0% overweight in Technology")
	assert.Contains(t, rec.Reason, "scaling back **TCS**")
	assert.NotContains(t, rec.Reason, "overweight in Finance")
	// Held only 100 days, no long-term flag
	assert.NotContains(t, rec.Reason, "LTCG")
}

func TestRecommend_OverweightLongTermFlag(t *testing.T) {
	repo := &mockPortfolioReader{
		account: cash(5000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 20, 3000),
			holding("HDFCBANK", "Finance", 25, 1600),
		},
		oldestLots: map[string]*models.BuyLot{
			"Technology": {Symbol: "TCS", BuyDate: time.Now().AddDate(0, 0, -400)},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)
	assert.Contains(t, rec.Reason, "(LTCG Eligible - Tax Efficient)")
}

func TestRecommend_UnderweightWithCashBuys(t *testing.T) {
	// Energy at 0% against a 15% target (gap 15 > 10) with 30,000 cash:
	// BUY for min(30000 − 10000, 50000) = 20,000
	repo := &mockPortfolioReader{
		account: cash(30000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 30, 1000),      // 30,000
			holding("HDFCBANK", "Finance", 35, 1000),    // 35,000
			holding("CIPLA", "Healthcare", 20, 1000),    // 20,000
			holding("ITC", "Consumer", 15, 1000),        // 15,000
		},
		candidates: map[string]*models.Instrument{
			"Energy": {Symbol: "ONGC", Name: "Oil & Natural Gas Corp"},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationActionBuy, rec.Action)
	assert.Equal(t, "Energy", rec.Sector)
	assert.Equal(t, "Oil & Natural Gas Corp (ONGC)", rec.SuggestedInstrument)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(20000)), "amount %s", rec.Amount)
	assert.Contains(t, rec.Reason, "Energy is underweight by 15.0%")
	assert.Contains(t, rec.Reason, "top momentum candidate")
}

func TestRecommend_BuyAmountCappedAtMax(t *testing.T) {
	repo := &mockPortfolioReader{
		account: cash(200000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 30, 1000),
			holding("HDFCBANK", "Finance", 35, 1000),
			holding("CIPLA", "Healthcare", 20, 1000),
			holding("ITC", "Consumer", 15, 1000),
		},
		candidates: map[string]*models.Instrument{
			"Energy": {Symbol: "NTPC", Name: "NTPC Ltd"},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(50000)), "amount %s", rec.Amount)
}

func TestRecommend_UnderweightLowCashIsInformational(t *testing.T) {
	repo := &mockPortfolioReader{
		account: cash(20000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 30, 1000),
			holding("HDFCBANK", "Finance", 35, 1000),
			holding("CIPLA", "Healthcare", 20, 1000),
			holding("ITC", "Consumer", 15, 1000),
		},
		candidates: map[string]*models.Instrument{
			"Energy": {Symbol: "ONGC", Name: "Oil & Natural Gas Corp"},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationActionHold, rec.Action)
	assert.True(t, rec.Amount.IsZero())
	assert.Contains(t, rec.Reason, "maintaining cash reserves")
	assert.Contains(t, rec.Reason, "20,000")
}

func TestRecommend_UnderweightNoCandidateHolds(t *testing.T) {
	// Enough cash but every Energy instrument is already held: no BUY and
	// no entry message
	repo := &mockPortfolioReader{
		account: cash(100000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 30, 1000),
			holding("HDFCBANK", "Finance", 35, 1000),
			holding("CIPLA", "Healthcare", 20, 1000),
			holding("ITC", "Consumer", 15, 1000),
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationActionHold, rec.Action)
	assert.NotContains(t, rec.Reason, "Strategic Entry")
}

func TestRecommend_TieBreaksOnTargetOrder(t *testing.T) {
	// Technology and Finance both diverge by 20 points; Technology comes
	// first in the target table and wins
	repo := &mockPortfolioReader{
		account: cash(5000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 45, 1000),   // 45%
			holding("HDFCBANK", "Finance", 45, 1000), // 45%
			holding("CIPLA", "Healthcare", 10, 1000), // 10%
		},
		oldestLots: map[string]*models.BuyLot{
			"Technology": {Symbol: "TCS", BuyDate: time.Now().AddDate(0, 0, -30)},
			"Finance":    {Symbol: "HDFCBANK", BuyDate: time.Now().AddDate(0, 0, -30)},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)
	assert.Contains(t, rec.Reason, "overweight in Technology")
	assert.NotContains(t, rec.Reason, "overweight in Finance")
}

func TestRecommend_AlignedPortfolio(t *testing.T) {
	// Allocation exactly on target everywhere: no findings
	repo := &mockPortfolioReader{
		account: cash(5000),
		holdings: []*models.Holding{
			holding("TCS", "Technology", 25, 1000),
			holding("HDFCBANK", "Finance", 25, 1000),
			holding("CIPLA", "Healthcare", 15, 1000),
			holding("ONGC", "Energy", 15, 1000),
			holding("ITC", "Consumer", 10, 1000),
			holding("BHARTIARTL", "", 10, 1000),
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationActionHold, rec.Action)
	assert.Equal(t, "ETF", rec.SuggestedInstrument)
	assert.Contains(t, rec.Reason, "optimally aligned")
}

func TestRecommend_UnclassifiedSectorBucketed(t *testing.T) {
	// Instruments without a sector count against the Unclassified target
	repo := &mockPortfolioReader{
		account: cash(5000),
		holdings: []*models.Holding{
			holding("MYSTERY", "", 60, 1000),         // 60% Unclassified, target 10
			holding("HDFCBANK", "Finance", 40, 1000), // 40%
		},
		oldestLots: map[string]*models.BuyLot{
			models.SectorUnclassified: {Symbol: "MYSTERY", BuyDate: time.Now().AddDate(0, 0, -10)},
		},
	}
	engine := New(repo, DefaultPolicy())

	rec, err := engine.Recommend(1)
	require.NoError(t, err)
	assert.Contains(t, rec.Reason, "overweight in Unclassified")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(decimal.Zero))
	assert.Equal(t, "999", formatAmount(decimal.NewFromInt(999)))
	assert.Equal(t, "25,000", formatAmount(decimal.NewFromInt(25000)))
	assert.Equal(t, "1,234,568", formatAmount(decimal.NewFromFloat(1234567.89)))
	assert.Equal(t, "-12,500", formatAmount(decimal.NewFromInt(-12500)))
}
