package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Transaction is an immutable, append-only record of one executed trade.
// Rows are never updated or deleted.
type Transaction struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Symbol string `gorm:"size:20;not null"`
	Side   string `gorm:"size:4;not null"`

	Quantity int64 `gorm:"not null"`

	// Price is the execution price in KRW (after FX conversion for USD
	// instruments).
	Price decimal.Decimal `gorm:"type:decimal(19,4);not null"`

	// Commission and TotalAmount are integer KRW. TotalAmount excludes the
	// commission.
	Commission  int64 `gorm:"not null"`
	TotalAmount int64 `gorm:"not null"`

	Market string `gorm:"size:10;not null"`

	CreatedAt time.Time `gorm:"index"`
}
