// Package entity defines the instrument reference data model.
package entity

import "time"

// Instrument is static reference data for one tradable symbol. Rows are
// created lazily the first time a symbol is traded and are immutable at
// runtime apart from bookkeeping timestamps.
type Instrument struct {
	ID       uint   `gorm:"primaryKey"`
	Symbol   string `gorm:"size:20;not null;uniqueIndex"`
	Name     string `gorm:"size:255;not null"`
	Market   string `gorm:"size:10;not null"`
	Currency string `gorm:"size:10;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
