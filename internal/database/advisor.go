package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// Advisor read queries. Both return (nil, nil) when nothing qualifies; the
// advisor treats an empty result as "no finding", not an error.

// OldestOpenLotInSector finds the account's earliest-acquired open lot
// among instruments of the given sector. The advisor surfaces it as the
// trim candidate for an overweight sector.
func (db *DB) OldestOpenLotInSector(accountID int64, sector string) (*models.BuyLot, error) {
	query := `
		SELECT b.id, b.account_id, b.instrument_id, i.symbol, b.buy_date, b.buy_price,
		       b.initial_quantity, b.remaining_quantity, b.created_at
		FROM buy_lots b
		JOIN instruments i ON b.instrument_id = i.id
		WHERE b.account_id = $1 AND b.remaining_quantity > 0 AND COALESCE(NULLIF(i.sector, ''), 'Unclassified') = $2
		ORDER BY b.buy_date ASC, b.id ASC
		LIMIT 1
	`
	var l models.BuyLot
	var buyPrice string

	err := db.conn.QueryRow(query, accountID, sector).Scan(
		&l.ID, &l.AccountID, &l.InstrumentID, &l.Symbol, &l.BuyDate, &buyPrice,
		&l.InitialQuantity, &l.RemainingQuantity, &l.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest open lot in %s: %w", sector, err)
	}

	if l.BuyPrice, err = decimal.NewFromString(buyPrice); err != nil {
		return nil, fmt.Errorf("failed to parse lot buy price: %w", err)
	}
	return &l, nil
}

// TopMomentumCandidate picks the highest-momentum instrument in a sector
// that the account does not already hold. Used for underweight buy
// suggestions.
func (db *DB) TopMomentumCandidate(accountID int64, sector string) (*models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM instruments
		WHERE COALESCE(NULLIF(sector, ''), 'Unclassified') = $2
		  AND id NOT IN (
			SELECT instrument_id FROM positions WHERE account_id = $1 AND total_quantity > 0
		  )
		ORDER BY momentum_score DESC
		LIMIT 1
	`
	i, err := scanInstrument(db.conn.QueryRow(query, accountID, sector))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find momentum candidate in %s: %w", sector, err)
	}
	return i, nil
}
