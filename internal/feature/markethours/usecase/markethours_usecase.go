package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"stock_trading_backend/internal/feature/markethours/domain/entity"
)

// ErrMarketNotFound is returned when no session is registered for a market.
var ErrMarketNotFound = errors.New("market not found")

// MarketHoursRepository abstracts persistence of market sessions.
type MarketHoursRepository interface {
	FindAll(ctx context.Context) ([]entity.MarketHours, error)
	FindByMarket(ctx context.Context, market string) (*entity.MarketHours, error)
	Ensure(ctx context.Context, hours *entity.MarketHours) error
}

// MarketStatus reports whether a market is currently inside its regular session.
type MarketStatus struct {
	Market     string `json:"market"`
	IsOpen     bool   `json:"is_open"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	Timezone   string `json:"timezone"`
	LocalTime  string `json:"local_time"`
	TradingDay bool   `json:"trading_day"`
}

// MarketHoursUsecase answers market session queries. The open flag is
// informational and never gates trading.
type MarketHoursUsecase struct {
	repo MarketHoursRepository
	now  func() time.Time
}

func NewMarketHoursUsecase(repo MarketHoursRepository) *MarketHoursUsecase {
	return &MarketHoursUsecase{repo: repo, now: time.Now}
}

// SeedDefaults registers the built-in KRW and USD sessions when missing.
func (u *MarketHoursUsecase) SeedDefaults(ctx context.Context) error {
	defaults := []entity.MarketHours{
		{Market: "KRW", OpenTime: "09:00", CloseTime: "15:30", Timezone: "Asia/Seoul", TradingDays: "MON,TUE,WED,THU,FRI"},
		{Market: "USD", OpenTime: "09:30", CloseTime: "16:00", Timezone: "America/New_York", TradingDays: "MON,TUE,WED,THU,FRI"},
	}
	for i := range defaults {
		if err := u.repo.Ensure(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

// List returns every registered market session.
func (u *MarketHoursUsecase) List(ctx context.Context) ([]entity.MarketHours, error) {
	return u.repo.FindAll(ctx)
}

// Status evaluates whether the given market is inside its session right now.
func (u *MarketHoursUsecase) Status(ctx context.Context, market string) (*MarketStatus, error) {
	hours, err := u.repo.FindByMarket(ctx, strings.ToUpper(market))
	if err != nil {
		return nil, err
	}
	return u.statusFor(hours)
}

// StatusAll evaluates every registered market at once.
func (u *MarketHoursUsecase) StatusAll(ctx context.Context) ([]*MarketStatus, error) {
	all, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]*MarketStatus, 0, len(all))
	for i := range all {
		status, err := u.statusFor(&all[i])
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (u *MarketHoursUsecase) statusFor(hours *entity.MarketHours) (*MarketStatus, error) {
	loc, err := time.LoadLocation(hours.Timezone)
	if err != nil {
		return nil, err
	}
	local := u.now().In(loc)

	status := &MarketStatus{
		Market:     hours.Market,
		OpenTime:   hours.OpenTime,
		CloseTime:  hours.CloseTime,
		Timezone:   hours.Timezone,
		LocalTime:  local.Format("15:04"),
		TradingDay: isTradingDay(hours.TradingDays, local.Weekday()),
	}
	if status.TradingDay {
		status.IsOpen = withinSession(local, hours.OpenTime, hours.CloseTime)
	}
	return status, nil
}

func isTradingDay(days string, weekday time.Weekday) bool {
	abbr := strings.ToUpper(weekday.String()[:3])
	for _, d := range strings.Split(days, ",") {
		if strings.TrimSpace(d) == abbr {
			return true
		}
	}
	return false
}

func withinSession(local time.Time, open, close string) bool {
	openT, err := time.Parse("15:04", open)
	if err != nil {
		return false
	}
	closeT, err := time.Parse("15:04", close)
	if err != nil {
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	openMin := openT.Hour()*60 + openT.Minute()
	closeMin := closeT.Hour()*60 + closeT.Minute()
	return minutes >= openMin && minutes <= closeMin
}
