package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// GetPosition retrieves the aggregate holding for one account/instrument
// pair. Returns (nil, nil) when no position row exists; a missing position
// is treated as zero shares by the trade engine.
func (db *DB) GetPosition(accountID, instrumentID int64) (*models.Position, error) {
	query := `
		SELECT account_id, instrument_id, total_quantity, avg_buy_price, updated_at
		FROM positions
		WHERE account_id = $1 AND instrument_id = $2
	`
	p, err := scanPosition(db.conn.QueryRow(query, accountID, instrumentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

// GetHoldings returns the account's open positions joined with instrument
// metadata, excluding sold-out rows. This is the view the portfolio
// endpoint and the allocation advisor consume.
func (db *DB) GetHoldings(accountID int64) ([]*models.Holding, error) {
	query := `
		SELECT p.instrument_id, i.symbol, i.sector, p.total_quantity, p.avg_buy_price, i.current_price
		FROM positions p
		JOIN instruments i ON p.instrument_id = i.id
		WHERE p.account_id = $1 AND p.total_quantity > 0
		ORDER BY i.symbol
	`
	rows, err := db.conn.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*models.Holding
	for rows.Next() {
		var h models.Holding
		var sector sql.NullString
		var avgPrice, currentPrice string

		err := rows.Scan(&h.InstrumentID, &h.Symbol, &sector, &h.Quantity, &avgPrice, &currentPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		if sector.Valid {
			h.Sector = sector.String
		}
		if h.AvgBuyPrice, err = decimal.NewFromString(avgPrice); err != nil {
			return nil, fmt.Errorf("failed to parse avg buy price: %w", err)
		}
		if h.CurrentPrice, err = decimal.NewFromString(currentPrice); err != nil {
			return nil, fmt.Errorf("failed to parse current price: %w", err)
		}
		holdings = append(holdings, &h)
	}
	return holdings, rows.Err()
}

func scanPosition(row interface{ Scan(...interface{}) error }) (*models.Position, error) {
	var p models.Position
	var avgPrice string

	err := row.Scan(&p.AccountID, &p.InstrumentID, &p.TotalQuantity, &avgPrice, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if p.AvgBuyPrice, err = decimal.NewFromString(avgPrice); err != nil {
		return nil, fmt.Errorf("failed to parse avg buy price: %w", err)
	}
	return &p, nil
}

// lockPosition reads a position with a FOR UPDATE row lock inside a trade
// transaction. Returns (nil, nil) when the account has never held the
// instrument.
func lockPosition(tx *sql.Tx, accountID, instrumentID int64) (*models.Position, error) {
	query := `
		SELECT account_id, instrument_id, total_quantity, avg_buy_price, updated_at
		FROM positions
		WHERE account_id = $1 AND instrument_id = $2
		FOR UPDATE
	`
	p, err := scanPosition(tx.QueryRow(query, accountID, instrumentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock position: %w", err)
	}
	return p, nil
}
