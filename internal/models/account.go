package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a trading account and its cash balance
type Account struct {
	ID          int64           `json:"account_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}
