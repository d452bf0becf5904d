package advisor

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// SectorTarget is one row of the strategic allocation table. Targets are
// ordered: ties between equally divergent sectors resolve to the earlier
// entry.
type SectorTarget struct {
	Sector  string
	Percent decimal.Decimal
}

// Policy holds the advisor's tunables. Thresholds are percentage points;
// amounts are cash units.
type Policy struct {
	Targets              []SectorTarget
	OverweightThreshold  decimal.Decimal
	UnderweightThreshold decimal.Decimal
	CashFloor            decimal.Decimal
	CashReserve          decimal.Decimal
	MaxBuyAmount         decimal.Decimal
}

// DefaultPolicy returns the strategic v2 targets and thresholds
func DefaultPolicy() Policy {
	return Policy{
		Targets: []SectorTarget{
			{Sector: "Technology", Percent: decimal.NewFromInt(25)},
			{Sector: "Finance", Percent: decimal.NewFromInt(25)},
			{Sector: "Healthcare", Percent: decimal.NewFromInt(15)},
			{Sector: "Energy", Percent: decimal.NewFromInt(15)},
			{Sector: "Consumer", Percent: decimal.NewFromInt(10)},
			{Sector: models.SectorUnclassified, Percent: decimal.NewFromInt(10)},
		},
		OverweightThreshold:  decimal.NewFromInt(15),
		UnderweightThreshold: decimal.NewFromInt(10),
		CashFloor:            decimal.NewFromInt(25000),
		CashReserve:          decimal.NewFromInt(10000),
		MaxBuyAmount:         decimal.NewFromInt(50000),
	}
}
