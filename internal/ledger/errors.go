package ledger

import "errors"

// Typed trade and feed errors. Callers match these with errors.Is; the API
// layer maps them to HTTP statuses.
var (
	// ErrInsufficientFunds is returned when a buy costs more than the
	// account's cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned when a sell requests more shares
	// than the position holds.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrNotFound is returned when the referenced account or instrument
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLedgerInconsistency signals that the open lots ran out before the
	// sell quantity was satisfied. The position tracker and lot ledger have
	// drifted; the trade is rolled back and the error must never be
	// swallowed or clamped.
	ErrLedgerInconsistency = errors.New("ledger inconsistency: open lots exhausted before sell quantity satisfied")

	// ErrFeedUnavailable is returned when the external quote provider
	// cannot be reached. Feed failures degrade gracefully and never fail a
	// trade or recommendation.
	ErrFeedUnavailable = errors.New("external feed unavailable")
)
