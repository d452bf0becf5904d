package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// PortfolioReader defines the read-only ledger access the advisor needs.
// Implemented by database.DB. OldestOpenLotInSector and
// TopMomentumCandidate return (nil, nil) when nothing qualifies.
type PortfolioReader interface {
	GetAccount(id int64) (*models.Account, error)
	GetHoldings(accountID int64) ([]*models.Holding, error)
	OldestOpenLotInSector(accountID int64, sector string) (*models.BuyLot, error)
	TopMomentumCandidate(accountID int64, sector string) (*models.Instrument, error)
}

// Engine compares an account's sector allocation against strategic targets
// and emits at most one recommended action. It only reads ledger state; the
// recommendation is a point-in-time snapshot.
type Engine struct {
	repo   PortfolioReader
	policy Policy
}

// New creates an advisor engine
func New(repo PortfolioReader, policy Policy) *Engine {
	return &Engine{repo: repo, policy: policy}
}

var hundred = decimal.NewFromInt(100)

// Recommend analyzes the account's current allocation. An overweight sector
// only contributes advisory text; an underweight sector with enough spare
// cash is the one path that sets action BUY.
func (e *Engine) Recommend(accountID int64) (*models.Recommendation, error) {
	account, err := e.repo.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := e.repo.GetHoldings(accountID)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	sectorValues := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		value := h.MarketValue()
		totalValue = totalValue.Add(value)
		sector := h.SectorLabel()
		sectorValues[sector] = sectorValues[sector].Add(value)
	}

	if totalValue.IsZero() {
		return &models.Recommendation{
			Status:  models.RecommendationStatusEmpty,
			Amount:  decimal.Zero,
			Message: "Portfolio is empty. Begin with a foundation in Technology or Finance using your cash reserves.",
		}, nil
	}

	rec := &models.Recommendation{
		Status:              models.RecommendationStatusSuccess,
		Action:              models.RecommendationActionHold,
		SuggestedInstrument: "ETF",
		Amount:              decimal.Zero,
	}
	var messages []string

	if sector, divergence, ok := e.findOverweight(sectorValues, totalValue); ok {
		msgs, err := e.trimAdvice(accountID, sector, divergence)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msgs...)
	}

	underweightSector, gap, underweight := e.findUnderweight(sectorValues, totalValue)
	if underweight && account.CashBalance.GreaterThan(e.policy.CashFloor) {
		pick, err := e.repo.TopMomentumCandidate(accountID, underweightSector)
		if err != nil {
			return nil, err
		}
		if pick != nil {
			rec.Action = models.RecommendationActionBuy
			rec.Sector = underweightSector
			rec.SuggestedInstrument = pick.Label()
			rec.Amount = decimal.Min(account.CashBalance.Sub(e.policy.CashReserve), e.policy.MaxBuyAmount)
			messages = append(messages,
				fmt.Sprintf("Strategic Entry: %s is underweight by %s%%.", underweightSector, gap.StringFixed(1)),
				fmt.Sprintf("With ₹%s cash available, **%s** is a top momentum candidate.",
					formatAmount(account.CashBalance), rec.SuggestedInstrument),
			)
		}
	} else if underweight {
		messages = append(messages,
			fmt.Sprintf("Allocation for %s is low, but maintaining cash reserves (₹%s) is prioritized.",
				underweightSector, formatAmount(account.CashBalance)))
	}

	if len(messages) > 0 {
		rec.Reason = strings.Join(messages, " ")
	} else {
		rec.Reason = "Portfolio is optimally aligned with Strategic V2 Targets."
	}
	return rec, nil
}

// findOverweight returns the sector whose current share exceeds its target
// by strictly more than the threshold, picking the largest divergence.
func (e *Engine) findOverweight(sectorValues map[string]decimal.Decimal, totalValue decimal.Decimal) (string, decimal.Decimal, bool) {
	var winner string
	highest := decimal.Zero

	for _, target := range e.policy.Targets {
		currentPct := sectorValues[target.Sector].Div(totalValue).Mul(hundred)
		if currentPct.GreaterThan(target.Percent.Add(e.policy.OverweightThreshold)) {
			divergence := currentPct.Sub(target.Percent)
			if divergence.GreaterThan(highest) {
				highest = divergence
				winner = target.Sector
			}
		}
	}
	return winner, highest, winner != ""
}

// findUnderweight returns the sector whose target exceeds its current share
// by strictly more than the threshold, picking the largest gap.
func (e *Engine) findUnderweight(sectorValues map[string]decimal.Decimal, totalValue decimal.Decimal) (string, decimal.Decimal, bool) {
	var winner string
	maxGap := decimal.Zero

	for _, target := range e.policy.Targets {
		currentPct := sectorValues[target.Sector].Div(totalValue).Mul(hundred)
		gap := target.Percent.Sub(currentPct)
		if gap.GreaterThan(e.policy.UnderweightThreshold) && gap.GreaterThan(maxGap) {
			maxGap = gap
			winner = target.Sector
		}
	}
	return winner, maxGap, winner != ""
}

// trimAdvice locates the overweight sector's oldest open lot and builds the
// scale-back messages, flagging long-term tax eligibility.
func (e *Engine) trimAdvice(accountID int64, sector string, divergence decimal.Decimal) ([]string, error) {
	lot, err := e.repo.OldestOpenLotInSector(accountID, sector)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, nil
	}

	taxMsg := ""
	if ledger.IsLongTerm(lot.BuyDate, time.Now()) {
		taxMsg = " (LTCG Eligible - Tax Efficient)"
	}
	return []string{
		fmt.Sprintf("Strategic Trim: Portfolio is %s%% overweight in %s.", divergence.StringFixed(1), sector),
		fmt.Sprintf("Consider scaling back **%s**%s to rebalance.", lot.Symbol, taxMsg),
	}, nil
}

// formatAmount renders a cash amount with thousands separators and no
// decimal places, e.g. 1234567.89 -> "1,234,568"
func formatAmount(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
