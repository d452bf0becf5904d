package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

const instrumentColumns = `id, symbol, name, sector, current_price, day_change, momentum_score, last_updated, created_at`

func scanInstrument(row interface{ Scan(...interface{}) error }) (*models.Instrument, error) {
	var i models.Instrument
	var name, sector sql.NullString
	var price, dayChange, momentum sql.NullString

	err := row.Scan(
		&i.ID, &i.Symbol, &name, &sector,
		&price, &dayChange, &momentum,
		&i.LastUpdated, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if name.Valid {
		i.Name = name.String
	}
	if sector.Valid {
		i.Sector = sector.String
	}
	if price.Valid {
		i.CurrentPrice, _ = decimal.NewFromString(price.String)
	}
	if dayChange.Valid {
		i.DayChange, _ = decimal.NewFromString(dayChange.String)
	}
	if momentum.Valid {
		i.MomentumScore, _ = decimal.NewFromString(momentum.String)
	}
	return &i, nil
}

// GetInstrument retrieves an instrument by symbol
func (db *DB) GetInstrument(symbol string) (*models.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE symbol = $1`

	i, err := scanInstrument(db.conn.QueryRow(query, symbol))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("instrument %s: %w", symbol, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument %s: %w", symbol, err)
	}
	return i, nil
}

// GetInstrumentByID retrieves an instrument by ID
func (db *DB) GetInstrumentByID(id int64) (*models.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE id = $1`

	i, err := scanInstrument(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("instrument %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument %d: %w", id, err)
	}
	return i, nil
}

// GetAllInstruments returns all instruments ordered by symbol
func (db *DB) GetAllInstruments() ([]*models.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments ORDER BY symbol`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get instruments: %w", err)
	}
	defer rows.Close()

	var instruments []*models.Instrument
	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, i)
	}
	return instruments, rows.Err()
}

// UpdateQuote writes a refreshed price, day change and momentum score for
// one instrument. Failed fetches never reach this method, so a stale row
// keeps its last good values.
func (db *DB) UpdateQuote(symbol string, price, dayChange, momentum decimal.Decimal) error {
	query := `
		UPDATE instruments
		SET current_price = $2, day_change = $3, momentum_score = $4, last_updated = $5
		WHERE symbol = $1
	`
	result, err := db.conn.Exec(query, symbol, price, dayChange, momentum, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quote for %s: %w", symbol, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("instrument %s: %w", symbol, ledger.ErrNotFound)
	}
	return nil
}
