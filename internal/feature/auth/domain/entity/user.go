// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered trader.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the public display name, unique across all users.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// Email is the address used for authentication, unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash. Plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	// Balance is the cash balance in integer KRW. Only the trading ledger
	// mutates it, atomically with the holding and transaction rows.
	Balance int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
