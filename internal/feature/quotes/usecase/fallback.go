package usecase

import (
	"context"
	"math"
	"math/rand"
	"time"

	"stock_trading_backend/internal/feature/quotes/domain"
	"stock_trading_backend/internal/feature/quotes/domain/entity"
)

// USD fallback prices above this are considered runaway and reset to seed.
const usdFallbackCeiling = 10000

// fallbackQuote synthesizes a plausible quote when the upstream provider is
// exhausted. The walk starts from the last cached price (or the seed price)
// with a +/-1% perturbation, and the result is clamped to [0.7, 1.5] times the
// seed price so repeated fallbacks cannot drift without bound.
func (u *QuoteUsecase) fallbackQuote(ctx context.Context, symbol string) *entity.Quote {
	korean := domain.IsKoreanSymbol(symbol)
	seed := domain.SeedPrice(symbol)

	last := seed
	if cached := u.lookupCached(ctx, symbol); cached != nil {
		last = cached.CurrentPrice
	}

	current := last * (1 + (rand.Float64()*0.02 - 0.01))
	if !korean && current > usdFallbackCeiling {
		current = seed
	}
	current = math.Max(seed*0.7, math.Min(seed*1.5, current))

	market := domain.MarketKRW
	if !korean {
		market = domain.MarketUSD
	}
	q := &entity.Quote{
		Symbol:        symbol,
		Name:          domain.NameOf(symbol),
		CurrentPrice:  current,
		PreviousClose: last,
		OpenPrice:     current * (0.995 + rand.Float64()*0.01),
		HighPrice:     current * (1.0 + rand.Float64()*0.02),
		LowPrice:      current * (0.98 + rand.Float64()*0.02),
		Volume:        1_000_000 + rand.Int63n(49_000_000),
		Change:        current - last,
		ChangePercent: changePercent(current, last),
		Market:        market,
		Currency:      market,
		Fallback:      true,
		UpdatedAt:     time.Now().UTC(),
	}
	if !korean {
		q.ExchangeRate = u.fx.Rate(ctx)
	}
	return q
}
