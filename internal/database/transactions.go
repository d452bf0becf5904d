package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// GetTransactions returns an account's trade history, newest first
func (db *DB) GetTransactions(accountID int64) ([]*models.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.instrument_id, i.symbol, t.txn_type, t.quantity, t.price, t.txn_date
		FROM transactions t
		JOIN instruments i ON t.instrument_id = i.id
		WHERE t.account_id = $1
		ORDER BY t.txn_date DESC, t.id DESC
	`
	rows, err := db.conn.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var price string

		err := rows.Scan(&t.ID, &t.AccountID, &t.InstrumentID, &t.Symbol,
			&t.Type, &t.Quantity, &price, &t.ExecutedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse transaction price: %w", err)
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
