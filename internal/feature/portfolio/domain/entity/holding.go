// Package entity defines the domain models for the portfolio feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's position in one instrument. A holding whose quantity
// reaches zero is deleted, never kept as a zero row.
type Holding struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;uniqueIndex:uk_user_symbol;index"`
	Symbol string `gorm:"size:20;not null;uniqueIndex:uk_user_symbol"`

	// Quantity is always positive for a persisted row.
	Quantity int64 `gorm:"not null"`

	// AvgPrice is the quantity-weighted average cost in KRW. It changes only
	// on buys; sells leave it untouched.
	AvgPrice decimal.Decimal `gorm:"type:decimal(19,4);not null"`

	// Market is the instrument's market code (KRW or USD).
	Market string `gorm:"size:10;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
