package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock_trading_backend/internal/feature/markethours/domain/entity"
	"stock_trading_backend/internal/feature/markethours/usecase"
)

type marketHoursMySQL struct {
	db *gorm.DB
}

// NewMarketHoursMySQL creates a GORM-backed market hours repository.
func NewMarketHoursMySQL(db *gorm.DB) usecase.MarketHoursRepository {
	return &marketHoursMySQL{db: db}
}

var _ usecase.MarketHoursRepository = (*marketHoursMySQL)(nil)

func (r *marketHoursMySQL) FindAll(ctx context.Context) ([]entity.MarketHours, error) {
	var hours []entity.MarketHours
	if err := r.db.WithContext(ctx).Order("market").Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *marketHoursMySQL) FindByMarket(ctx context.Context, market string) (*entity.MarketHours, error) {
	var hours entity.MarketHours
	err := r.db.WithContext(ctx).Where("market = ?", market).Take(&hours).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hours, nil
}

func (r *marketHoursMySQL) Ensure(ctx context.Context, hours *entity.MarketHours) error {
	return r.db.WithContext(ctx).
		Where("market = ?", hours.Market).
		FirstOrCreate(hours).Error
}
