package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// CreateAccount inserts a new account. The cash balance starts at the
// schema default.
func (db *DB) CreateAccount(a *models.Account) error {
	query := `
		INSERT INTO accounts (name, email)
		VALUES ($1, $2)
		RETURNING id, cash_balance, created_at
	`
	var balance string
	err := db.conn.QueryRow(query, a.Name, a.Email).Scan(&a.ID, &balance, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.CashBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("failed to parse cash balance: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID
func (db *DB) GetAccount(id int64) (*models.Account, error) {
	query := `
		SELECT id, name, email, cash_balance, created_at
		FROM accounts
		WHERE id = $1
	`
	var a models.Account
	var balance string

	err := db.conn.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.Email, &balance, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	a.CashBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash balance: %w", err)
	}
	return &a, nil
}

// lockAccountCash reads an account's cash balance with a FOR UPDATE row
// lock. Every trade takes this lock first, serializing concurrent trades
// against the same account while leaving other accounts untouched.
func lockAccountCash(tx *sql.Tx, accountID int64) (decimal.Decimal, error) {
	var balance string
	err := tx.QueryRow(
		`SELECT cash_balance FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID,
	).Scan(&balance)

	if err == sql.ErrNoRows {
		return decimal.Zero, fmt.Errorf("account %d: %w", accountID, ledger.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	return decimal.NewFromString(balance)
}

// setAccountCash writes the new cash balance inside a trade transaction
func setAccountCash(tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	result, err := tx.Exec(
		`UPDATE accounts SET cash_balance = $2 WHERE id = $1`,
		accountID, balance,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("account %d: %w", accountID, ledger.ErrNotFound)
	}
	return nil
}
