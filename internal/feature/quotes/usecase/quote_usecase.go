// Package usecase implements the quote cache and the upstream fetch pipeline.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"stock_trading_backend/internal/feature/quotes/domain"
	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/shared/ratelimiter"
)

const (
	fetchAttempts   = 3
	fetchWindowDays = 30

	// USD closes outside this band are treated as provider corruption and
	// rejected, triggering a retry.
	usdPriceMin = 0.01
	usdPriceMax = 50000

	maxSearchResults = 20

	// DefaultHistoryDays and MaxHistoryDays bound the chart history window.
	DefaultHistoryDays = 30
	MaxHistoryDays     = 1095
)

// ErrQuoteNotFound is returned when no quote can be produced for a symbol.
// Given the fallback synthesizer this only happens on context cancellation.
var ErrQuoteNotFound = errors.New("quote not found")

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("search query is empty")

// ErrQuoteNotCached is returned by a QuoteStore when a symbol has no entry.
var ErrQuoteNotCached = errors.New("quote not cached")

// BarProvider fetches daily OHLCV bars from the upstream market data source.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (platform/externalapi).
type BarProvider interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error)
}

// QuoteStore is the durable side-store behind the in-memory cache. Entries are
// replaced wholesale, never merged.
type QuoteStore interface {
	// Get returns the stored quote, or ErrQuoteNotCached when absent.
	Get(ctx context.Context, symbol string) (*entity.Quote, error)
	// Put stores the quote under its symbol, replacing any previous entry.
	Put(ctx context.Context, q *entity.Quote) error
}

// QuoteUsecase serves near-real-time quotes from a two-level cache (memory,
// durable store), fetching from the upstream provider on demand and falling
// back to synthetic quotes when the provider is exhausted.
type QuoteUsecase struct {
	bars    BarProvider
	store   QuoteStore
	fx      *FxRateProvider
	limiter ratelimiter.RateLimiterInterface

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)

	mu    sync.RWMutex
	cache map[string]*entity.Quote
}

// NewQuoteUsecase creates a QuoteUsecase with the given collaborators.
func NewQuoteUsecase(bars BarProvider, store QuoteStore, fx *FxRateProvider, limiter ratelimiter.RateLimiterInterface) *QuoteUsecase {
	return &QuoteUsecase{
		bars:    bars,
		store:   store,
		fx:      fx,
		limiter: limiter,
		sleep:   time.Sleep,
		cache:   make(map[string]*entity.Quote),
	}
}

// GetQuote returns the latest quote for symbol: memory cache first, then the
// durable store, then a synchronous fetch. A successful fetch writes through
// to both cache levels.
func (u *QuoteUsecase) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	if q := u.lookupCached(ctx, symbol); q != nil {
		return q, nil
	}
	q, err := u.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, errors.Join(ErrQuoteNotFound, err)
	}
	u.putQuote(ctx, q)
	return q, nil
}

// RefreshQuote bypasses the cache, runs the fetch pipeline and stores the
// result. Used by the background scheduler.
func (u *QuoteUsecase) RefreshQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	q, err := u.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	u.putQuote(ctx, q)
	return q, nil
}

// lookupCached checks the memory map, then the durable store. A store hit is
// promoted into memory.
func (u *QuoteUsecase) lookupCached(ctx context.Context, symbol string) *entity.Quote {
	u.mu.RLock()
	q, ok := u.cache[symbol]
	u.mu.RUnlock()
	if ok {
		return q
	}

	if u.store == nil {
		return nil
	}
	q, err := u.store.Get(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ErrQuoteNotCached) {
			slog.Warn("quote store lookup failed", "symbol", symbol, "error", err)
		}
		return nil
	}
	u.mu.Lock()
	u.cache[symbol] = q
	u.mu.Unlock()
	return q
}

// putQuote replaces the cached quote in memory and, best effort, in the
// durable store. Last writer wins per symbol.
func (u *QuoteUsecase) putQuote(ctx context.Context, q *entity.Quote) {
	u.mu.Lock()
	u.cache[q.Symbol] = q
	u.mu.Unlock()

	if u.store == nil {
		return
	}
	if err := u.store.Put(ctx, q); err != nil {
		slog.Warn("quote store write failed", "symbol", q.Symbol, "error", err)
	}
}

// fetchQuote attempts the upstream provider up to fetchAttempts times with
// randomized, attempt-scaled backoff, then falls back to a synthetic quote.
// The jitter windows (KRW 2-5s, USD 3-6s per attempt index) keep the service
// under the upstream rate limit; the USD provider is the stricter of the two.
func (u *QuoteUsecase) fetchQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	korean := domain.IsKoreanSymbol(symbol)
	lo, hi := 2.0, 5.0
	if !korean {
		lo, hi = 3.0, 6.0
	}

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			u.sleep(randDuration(lo*float64(attempt+1), hi*float64(attempt+1)))
		}
		u.limiter.WaitIfNeeded()

		end := time.Now()
		bars, err := u.bars.GetDailyBars(ctx, symbol, end.AddDate(0, 0, -fetchWindowDays), end)
		if err != nil {
			slog.Warn("quote fetch attempt failed", "symbol", symbol, "attempt", attempt+1, "error", err)
			continue
		}
		if len(bars) == 0 {
			slog.Warn("quote fetch returned no bars", "symbol", symbol, "attempt", attempt+1)
			continue
		}

		latest := bars[len(bars)-1]
		if !korean && (latest.Close < usdPriceMin || latest.Close > usdPriceMax) {
			slog.Warn("rejecting out-of-band USD price", "symbol", symbol, "close", latest.Close)
			continue
		}

		// Previous close falls back to a conservative synthetic baseline when
		// only a single bar is available.
		prev := latest.Close * 0.99
		if len(bars) >= 2 {
			prev = bars[len(bars)-2].Close
		}
		return u.buildQuote(ctx, symbol, latest, prev, korean), nil
	}

	slog.Warn("quote fetch exhausted, synthesizing fallback", "symbol", symbol)
	return u.fallbackQuote(ctx, symbol), nil
}

func (u *QuoteUsecase) buildQuote(ctx context.Context, symbol string, bar entity.Bar, prevClose float64, korean bool) *entity.Quote {
	market := domain.MarketKRW
	if !korean {
		market = domain.MarketUSD
	}
	q := &entity.Quote{
		Symbol:        symbol,
		Name:          domain.NameOf(symbol),
		CurrentPrice:  bar.Close,
		PreviousClose: prevClose,
		OpenPrice:     bar.Open,
		HighPrice:     bar.High,
		LowPrice:      bar.Low,
		Volume:        bar.Volume,
		Change:        bar.Close - prevClose,
		ChangePercent: changePercent(bar.Close, prevClose),
		Market:        market,
		Currency:      market,
		UpdatedAt:     time.Now().UTC(),
	}
	if !korean {
		q.ExchangeRate = u.fx.Rate(ctx)
	}
	return q
}

// Search matches the tracked universe by symbol or name substring and returns
// quotes for the matches, capped at maxSearchResults.
func (u *QuoteUsecase) Search(ctx context.Context, query string) ([]*entity.Quote, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	upper := strings.ToUpper(query)
	lower := strings.ToLower(query)

	var out []*entity.Quote
	for _, symbol := range domain.AllSymbols() {
		if len(out) >= maxSearchResults {
			break
		}
		name := domain.NameOf(symbol)
		if !strings.Contains(strings.ToUpper(symbol), upper) &&
			!strings.Contains(strings.ToLower(name), lower) {
			continue
		}
		q, err := u.GetQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// MarketSummary is a snapshot of the refresh batches plus the current FX rate.
type MarketSummary struct {
	KoreanMarket []*entity.Quote `json:"korean_market"`
	USMarket     []*entity.Quote `json:"us_market"`
	ExchangeRate float64         `json:"exchange_rate"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// GetMarketSummary returns cached quotes for the top symbols of each market.
// It reads only the cache, so a summary never triggers an upstream burst.
func (u *QuoteUsecase) GetMarketSummary(ctx context.Context) *MarketSummary {
	s := &MarketSummary{
		ExchangeRate: u.fx.Rate(ctx),
		UpdatedAt:    time.Now().UTC(),
	}
	for _, symbol := range domain.TopKRSymbols() {
		if q := u.lookupCached(ctx, symbol); q != nil {
			s.KoreanMarket = append(s.KoreanMarket, q)
		}
	}
	for _, symbol := range domain.TopUSSymbols() {
		if q := u.lookupCached(ctx, symbol); q != nil {
			s.USMarket = append(s.USMarket, q)
		}
	}
	return s
}

// GetMultiple resolves several symbols in one call. Cache misses are paced
// with a short random delay so a batch cannot burst the upstream provider.
func (u *QuoteUsecase) GetMultiple(ctx context.Context, symbols []string) ([]*entity.Quote, error) {
	out := make([]*entity.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		if q := u.lookupCached(ctx, symbol); q != nil {
			out = append(out, q)
			continue
		}
		if len(out) > 0 {
			u.sleep(randDuration(1, 3))
		}
		q, err := u.GetQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// GetHistory returns daily bars for charting. History is fetched straight from
// the provider and is not cached or synthesized.
func (u *QuoteUsecase) GetHistory(ctx context.Context, symbol string, days int) ([]entity.Bar, error) {
	if days <= 0 || days > MaxHistoryDays {
		days = DefaultHistoryDays
	}
	end := time.Now()
	return u.bars.GetDailyBars(ctx, symbol, end.AddDate(0, 0, -days), end)
}

func changePercent(current, prev float64) float64 {
	if prev > 0 {
		return (current - prev) / prev * 100
	}
	return 0
}

// randDuration returns a uniformly random duration in [lo, hi] seconds.
func randDuration(lo, hi float64) time.Duration {
	return time.Duration((lo + rand.Float64()*(hi-lo)) * float64(time.Second))
}
