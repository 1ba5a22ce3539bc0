package entity

import "time"

// MarketHours holds the regular trading session for one market.
// OpenTime and CloseTime are local wall-clock times in "15:04" form,
// interpreted in Timezone. TradingDays is a comma separated list of
// three letter weekday abbreviations (MON,TUE,...).
type MarketHours struct {
	ID          uint   `gorm:"primaryKey"`
	Market      string `gorm:"size:10;uniqueIndex"`
	OpenTime    string `gorm:"size:5"`
	CloseTime   string `gorm:"size:5"`
	Timezone    string `gorm:"size:40"`
	TradingDays string `gorm:"size:40"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
