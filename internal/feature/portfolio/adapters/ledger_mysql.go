// Package adapters provides the MySQL persistence layer for the portfolio
// feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	authentity "stock_trading_backend/internal/feature/auth/domain/entity"
	"stock_trading_backend/internal/feature/portfolio/domain/entity"
	"stock_trading_backend/internal/feature/portfolio/usecase"
)

// ledgerMySQL implements usecase.LedgerStore on GORM. Transact hands the
// callback a store bound to the transaction handle, so every call inside it
// participates in the same database transaction.
type ledgerMySQL struct {
	db *gorm.DB
}

var _ usecase.LedgerStore = (*ledgerMySQL)(nil)

// NewLedgerMySQL creates a ledger store on the given connection.
func NewLedgerMySQL(db *gorm.DB) *ledgerMySQL {
	return &ledgerMySQL{db: db}
}

// Transact runs fn inside one database transaction.
func (l *ledgerMySQL) Transact(ctx context.Context, fn func(s usecase.LedgerStore) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerMySQL{db: tx})
	})
}

// Balance returns the user's cash balance in KRW.
func (l *ledgerMySQL) Balance(ctx context.Context, userID uint) (int64, error) {
	var balance int64
	err := l.db.WithContext(ctx).
		Model(&authentity.User{}).
		Select("balance").
		Where("id = ?", userID).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, usecase.ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// UpdateBalance sets the user's cash balance.
func (l *ledgerMySQL) UpdateBalance(ctx context.Context, userID uint, balance int64) error {
	res := l.db.WithContext(ctx).
		Model(&authentity.User{}).
		Where("id = ?", userID).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Holding returns the user's position in symbol, or usecase.ErrNoPosition.
func (l *ledgerMySQL) Holding(ctx context.Context, userID uint, symbol string) (*entity.Holding, error) {
	var h entity.Holding
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNoPosition
		}
		return nil, err
	}
	return &h, nil
}

// SaveHolding inserts or updates a holding row.
func (l *ledgerMySQL) SaveHolding(ctx context.Context, h *entity.Holding) error {
	return l.db.WithContext(ctx).Save(h).Error
}

// DeleteHolding removes a holding row. Called when quantity reaches zero;
// zero-quantity rows are never retained.
func (l *ledgerMySQL) DeleteHolding(ctx context.Context, h *entity.Holding) error {
	return l.db.WithContext(ctx).Delete(h).Error
}

// Holdings returns all of the user's positions.
func (l *ledgerMySQL) Holdings(ctx context.Context, userID uint) ([]entity.Holding, error) {
	var hs []entity.Holding
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND quantity > 0", userID).
		Order("symbol").
		Find(&hs).Error
	if err != nil {
		return nil, err
	}
	return hs, nil
}

// AppendTransaction inserts a trade record. Records are append-only.
func (l *ledgerMySQL) AppendTransaction(ctx context.Context, t *entity.Transaction) error {
	return l.db.WithContext(ctx).Create(t).Error
}

// Transactions returns the user's trades, newest first.
func (l *ledgerMySQL) Transactions(ctx context.Context, userID uint, limit int) ([]entity.Transaction, error) {
	var ts []entity.Transaction
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}
