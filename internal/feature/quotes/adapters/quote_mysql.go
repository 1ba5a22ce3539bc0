package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/feature/quotes/usecase"
)

// QuoteModel is the database row backing the durable quote store when Redis
// is not available. The quote is kept as one JSON document so a refresh
// replaces it wholesale, mirroring the Redis representation.
type QuoteModel struct {
	Symbol    string `gorm:"primaryKey;size:20"`
	Data      []byte `gorm:"type:json;not null"`
	UpdatedAt time.Time
}

// TableName maps QuoteModel to the quote_cache table.
func (QuoteModel) TableName() string { return "quote_cache" }

type quoteMySQL struct {
	db *gorm.DB
}

var _ usecase.QuoteStore = (*quoteMySQL)(nil)

// NewQuoteMySQL creates a database-backed quote store.
func NewQuoteMySQL(db *gorm.DB) *quoteMySQL {
	return &quoteMySQL{db: db}
}

// Get returns the stored quote for symbol, or usecase.ErrQuoteNotCached.
func (s *quoteMySQL) Get(ctx context.Context, symbol string) (*entity.Quote, error) {
	var row QuoteModel
	if err := s.db.WithContext(ctx).First(&row, "symbol = ?", symbol).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrQuoteNotCached
		}
		return nil, err
	}

	var q entity.Quote
	if err := json.Unmarshal(row.Data, &q); err != nil {
		// Corrupted row: delete and report a miss so the caller re-fetches.
		_ = s.db.WithContext(ctx).Delete(&QuoteModel{}, "symbol = ?", symbol).Error
		return nil, usecase.ErrQuoteNotCached
	}
	return &q, nil
}

// Put upserts the quote row for the symbol.
func (s *quoteMySQL) Put(ctx context.Context, q *entity.Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	row := QuoteModel{Symbol: q.Symbol, Data: b}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}
