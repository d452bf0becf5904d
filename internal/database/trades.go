package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/models"
)

// ExecuteBuy performs an atomic buy: debit cash, append a BUY transaction,
// open a new lot and fold the purchase into the position's weighted-average
// cost. The account row lock serializes concurrent trades per account; any
// failure rolls the whole trade back.
func (db *DB) ExecuteBuy(accountID, instrumentID, quantity int64, price decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("buy quantity must be positive, got %d", quantity)
	}
	if !price.IsPositive() {
		return fmt.Errorf("buy price must be positive, got %s", price)
	}

	return db.withTx(func(tx *sql.Tx) error {
		balance, err := lockAccountCash(tx, accountID)
		if err != nil {
			return err
		}

		if err := instrumentExists(tx, instrumentID); err != nil {
			return err
		}

		cost := price.Mul(decimal.NewFromInt(quantity))
		if balance.LessThan(cost) {
			return fmt.Errorf("%w: required %s, available %s",
				ledger.ErrInsufficientFunds, cost.StringFixed(2), balance.StringFixed(2))
		}

		if err := setAccountCash(tx, accountID, balance.Sub(cost)); err != nil {
			return err
		}

		now := time.Now()
		if err := insertTransaction(tx, accountID, instrumentID, models.TradeTypeBuy, quantity, price, now); err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO buy_lots (account_id, instrument_id, buy_date, buy_price, initial_quantity, remaining_quantity)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, accountID, instrumentID, now, price, quantity)
		if err != nil {
			return fmt.Errorf("failed to create buy lot: %w", err)
		}

		return upsertPositionForBuy(tx, accountID, instrumentID, quantity, price, now)
	})
}

// ExecuteSellFIFO performs an atomic sell: consume open lots oldest-first,
// record one realized gain per lot touched, decrement the position, append
// a SELL transaction and credit cash. The position is the authoritative
// guard; lots running short of it is surfaced as a ledger inconsistency and
// rolls the trade back.
func (db *DB) ExecuteSellFIFO(accountID, instrumentID, quantity int64, price decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("sell quantity must be positive, got %d", quantity)
	}
	if !price.IsPositive() {
		return fmt.Errorf("sell price must be positive, got %s", price)
	}

	return db.withTx(func(tx *sql.Tx) error {
		balance, err := lockAccountCash(tx, accountID)
		if err != nil {
			return err
		}

		if err := instrumentExists(tx, instrumentID); err != nil {
			return err
		}

		position, err := lockPosition(tx, accountID, instrumentID)
		if err != nil {
			return err
		}
		held := int64(0)
		if position != nil {
			held = position.TotalQuantity
		}
		if held < quantity {
			return fmt.Errorf("%w: requested %d, held %d",
				ledger.ErrInsufficientShares, quantity, held)
		}

		lots, err := lockOpenLots(tx, accountID, instrumentID)
		if err != nil {
			return err
		}

		now := time.Now()
		consumptions, err := ledger.ConsumeLots(lots, quantity, price, now)
		if err != nil {
			return err
		}

		for _, c := range consumptions {
			_, err := tx.Exec(
				`UPDATE buy_lots SET remaining_quantity = $2 WHERE id = $1`,
				c.LotID, c.Remaining,
			)
			if err != nil {
				return fmt.Errorf("failed to update lot %d: %w", c.LotID, err)
			}

			_, err = tx.Exec(`
				INSERT INTO realized_gains
					(account_id, instrument_id, buy_lot_id, quantity, buy_date, sell_date, buy_price, sell_price, total_gain, term)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, accountID, instrumentID, c.LotID, c.Quantity, c.BuyDate, now, c.BuyPrice, price, c.Gain, c.Term)
			if err != nil {
				return fmt.Errorf("failed to record realized gain: %w", err)
			}
		}

		_, err = tx.Exec(`
			UPDATE positions
			SET total_quantity = total_quantity - $3, updated_at = $4
			WHERE account_id = $1 AND instrument_id = $2
		`, accountID, instrumentID, quantity, now)
		if err != nil {
			return fmt.Errorf("failed to update position: %w", err)
		}

		if err := insertTransaction(tx, accountID, instrumentID, models.TradeTypeSell, quantity, price, now); err != nil {
			return err
		}

		proceeds := price.Mul(decimal.NewFromInt(quantity))
		return setAccountCash(tx, accountID, balance.Add(proceeds))
	})
}

func instrumentExists(tx *sql.Tx, instrumentID int64) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM instruments WHERE id = $1`, instrumentID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("instrument %d: %w", instrumentID, ledger.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check instrument %d: %w", instrumentID, err)
	}
	return nil
}

func insertTransaction(tx *sql.Tx, accountID, instrumentID int64, tradeType string, quantity int64, price decimal.Decimal, at time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (account_id, instrument_id, txn_type, quantity, price, txn_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, accountID, instrumentID, tradeType, quantity, price, at)
	if err != nil {
		return fmt.Errorf("failed to record %s transaction: %w", tradeType, err)
	}
	return nil
}

// upsertPositionForBuy creates the position on first purchase, otherwise
// recomputes the weighted-average cost and adds the new shares.
func upsertPositionForBuy(tx *sql.Tx, accountID, instrumentID, quantity int64, price decimal.Decimal, at time.Time) error {
	position, err := lockPosition(tx, accountID, instrumentID)
	if err != nil {
		return err
	}

	if position == nil {
		_, err := tx.Exec(`
			INSERT INTO positions (account_id, instrument_id, total_quantity, avg_buy_price, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, accountID, instrumentID, quantity, price, at)
		if err != nil {
			return fmt.Errorf("failed to create position: %w", err)
		}
		return nil
	}

	newAvg := ledger.WeightedAverage(position.TotalQuantity, position.AvgBuyPrice, quantity, price)
	_, err = tx.Exec(`
		UPDATE positions
		SET total_quantity = total_quantity + $3, avg_buy_price = $4, updated_at = $5
		WHERE account_id = $1 AND instrument_id = $2
	`, accountID, instrumentID, quantity, newAvg, at)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return nil
}

// lockOpenLots loads the open lots for one account/instrument pair in FIFO
// order with FOR UPDATE row locks. Acquisition-date ties break by lot id,
// which follows insertion order.
func lockOpenLots(tx *sql.Tx, accountID, instrumentID int64) ([]*models.BuyLot, error) {
	query := `
		SELECT id, account_id, instrument_id, buy_date, buy_price, initial_quantity, remaining_quantity, created_at
		FROM buy_lots
		WHERE account_id = $1 AND instrument_id = $2 AND remaining_quantity > 0
		ORDER BY buy_date ASC, id ASC
		FOR UPDATE
	`
	rows, err := tx.Query(query, accountID, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open lots: %w", err)
	}
	defer rows.Close()

	var lots []*models.BuyLot
	for rows.Next() {
		var l models.BuyLot
		var buyPrice string

		err := rows.Scan(&l.ID, &l.AccountID, &l.InstrumentID, &l.BuyDate, &buyPrice,
			&l.InitialQuantity, &l.RemainingQuantity, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot: %w", err)
		}

		if l.BuyPrice, err = decimal.NewFromString(buyPrice); err != nil {
			return nil, fmt.Errorf("failed to parse lot buy price: %w", err)
		}
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}
