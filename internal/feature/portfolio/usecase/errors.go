package usecase

import "errors"

// Ledger precondition failures. These are user-correctable and surfaced
// as-is; they are never retried.
var (
	// ErrInvalidQuantity indicates a non-positive trade quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrStockNotFound indicates no quote could be produced for the symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrInsufficientFunds indicates the cash balance does not cover the
	// total cost of a buy.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoPosition indicates the user holds no position in the symbol.
	ErrNoPosition = errors.New("no position in this stock")

	// ErrInsufficientPosition indicates the held quantity is less than the
	// requested sell quantity.
	ErrInsufficientPosition = errors.New("insufficient position quantity")

	// ErrUserNotFound indicates the user row is missing.
	ErrUserNotFound = errors.New("user not found")
)
