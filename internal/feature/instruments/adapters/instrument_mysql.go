// Package adapters provides the MySQL repository for instrument reference
// data.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_trading_backend/internal/feature/instruments/domain/entity"
)

type instrumentMySQL struct {
	db *gorm.DB
}

// NewInstrumentMySQL creates an instrument repository.
func NewInstrumentMySQL(db *gorm.DB) *instrumentMySQL {
	return &instrumentMySQL{db: db}
}

// Ensure creates the instrument row if the symbol is not registered yet.
// Idempotent; existing rows are left untouched.
func (r *instrumentMySQL) Ensure(ctx context.Context, symbol, name, market, currency string) error {
	inst := entity.Instrument{
		Symbol:   symbol,
		Name:     name,
		Market:   market,
		Currency: currency,
	}
	return r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		FirstOrCreate(&inst).Error
}

// FindBySymbol returns the instrument row if registered.
func (r *instrumentMySQL) FindBySymbol(ctx context.Context, symbol string) (*entity.Instrument, error) {
	var inst entity.Instrument
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}
