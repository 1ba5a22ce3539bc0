// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	quoteadapters "stock_trading_backend/internal/feature/quotes/adapters"
	"stock_trading_backend/internal/feature/quotes/usecase"
	"stock_trading_backend/internal/platform/externalapi/exchangerate"
	"stock_trading_backend/internal/platform/externalapi/findata"
	infrahttp "stock_trading_backend/internal/platform/http"
	"stock_trading_backend/internal/shared/ratelimiter"
)

// upstreamRequestsPerMinute caps calls to the market data provider so the
// background refresh and interactive lookups share one budget.
const upstreamRequestsPerMinute = 8

// NewBarProvider creates the market data client with its configured HTTP client.
func NewBarProvider() *findata.Client {
	cfg := findata.LoadConfig()
	return findata.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewQuoteStore creates the durable quote store. Redis is preferred when
// available, with MySQL as the fallback.
func NewQuoteStore(rdb *redis.Client, db *gorm.DB) usecase.QuoteStore {
	if rdb != nil {
		return quoteadapters.NewQuoteRedis(rdb, "quotes")
	}
	return quoteadapters.NewQuoteMySQL(db)
}

// NewQuoteService wires the quote usecase with its provider, store, FX rate
// source and rate limiter.
func NewQuoteService(rdb *redis.Client, db *gorm.DB) (*usecase.QuoteUsecase, *usecase.FxRateProvider) {
	bars := NewBarProvider()
	store := NewQuoteStore(rdb, db)
	secondary := exchangerate.NewClient(infrahttp.NewHTTPClient(10 * time.Second))
	fx := usecase.NewFxRateProvider(bars, secondary)
	limiter := ratelimiter.NewRateLimiter(upstreamRequestsPerMinute, time.Minute)
	return usecase.NewQuoteUsecase(bars, store, fx, limiter), fx
}
