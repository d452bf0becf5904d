package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// GetRealizedGains returns every realized-gain row for an account, newest
// sell first, joined with the instrument symbol for display.
func (db *DB) GetRealizedGains(accountID int64) ([]*models.RealizedGain, error) {
	query := `
		SELECT r.id, r.account_id, r.instrument_id, r.buy_lot_id, i.symbol,
		       r.quantity, r.buy_date, r.sell_date, r.buy_price, r.sell_price,
		       r.total_gain, r.term
		FROM realized_gains r
		JOIN instruments i ON r.instrument_id = i.id
		WHERE r.account_id = $1
		ORDER BY r.sell_date DESC, r.id DESC
	`
	rows, err := db.conn.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get realized gains: %w", err)
	}
	defer rows.Close()

	var gains []*models.RealizedGain
	for rows.Next() {
		var g models.RealizedGain
		var buyPrice, sellPrice, gain string

		err := rows.Scan(&g.ID, &g.AccountID, &g.InstrumentID, &g.LotID, &g.Symbol,
			&g.Quantity, &g.BuyDate, &g.SellDate, &buyPrice, &sellPrice,
			&gain, &g.Term)
		if err != nil {
			return nil, fmt.Errorf("failed to scan realized gain: %w", err)
		}

		if g.BuyPrice, err = decimal.NewFromString(buyPrice); err != nil {
			return nil, fmt.Errorf("failed to parse buy price: %w", err)
		}
		if g.SellPrice, err = decimal.NewFromString(sellPrice); err != nil {
			return nil, fmt.Errorf("failed to parse sell price: %w", err)
		}
		if g.Gain, err = decimal.NewFromString(gain); err != nil {
			return nil, fmt.Errorf("failed to parse gain: %w", err)
		}
		gains = append(gains, &g)
	}
	return gains, rows.Err()
}
