package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_trading_backend/internal/feature/quotes/domain"
)

const (
	// DefaultRefreshInterval paces full refresh cycles. Far longer than one
	// fetch burst, to stay under the upstream rate limit.
	DefaultRefreshInterval = 10 * time.Minute

	// batchPause separates the KR burst from the US burst within a cycle.
	batchPause = 5 * time.Second
)

// RefreshScheduler is the single background loop keeping the priority symbols
// warm in the cache. Individual symbol failures never abort a cycle, and a
// cycle is only cancellable between symbols so an in-flight fetch finishes
// before shutdown.
type RefreshScheduler struct {
	quotes   *QuoteUsecase
	fx       *FxRateProvider
	interval time.Duration
	sleep    func(time.Duration)
}

// NewRefreshScheduler creates a scheduler. A non-positive interval selects
// DefaultRefreshInterval.
func NewRefreshScheduler(quotes *QuoteUsecase, fx *FxRateProvider, interval time.Duration) *RefreshScheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshScheduler{
		quotes:   quotes,
		fx:       fx,
		interval: interval,
		sleep:    time.Sleep,
	}
}

// Run executes refresh cycles until ctx is cancelled. It returns only after
// the current symbol's fetch has completed.
func (s *RefreshScheduler) Run(ctx context.Context) {
	slog.Info("quote refresh scheduler started", "interval", s.interval)
	for {
		s.refreshAll(ctx)
		select {
		case <-ctx.Done():
			slog.Info("quote refresh scheduler stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *RefreshScheduler) refreshAll(ctx context.Context) {
	started := time.Now()
	s.fx.Refresh(ctx)

	n := s.refreshBatch(ctx, domain.TopKRSymbols(), 2, 4)
	if ctx.Err() != nil {
		return
	}
	s.sleep(batchPause)
	n += s.refreshBatch(ctx, domain.TopUSSymbols(), 4, 8)

	slog.Info("quote refresh cycle complete", "symbols", n, "elapsed", time.Since(started))
}

// refreshBatch walks one market's priority symbols with a randomized pause
// between fetches. Cancellation is checked before each symbol, never mid-fetch.
func (s *RefreshScheduler) refreshBatch(ctx context.Context, symbols []string, lo, hi float64) int {
	n := 0
	for i, symbol := range symbols {
		select {
		case <-ctx.Done():
			return n
		default:
		}
		if i > 0 {
			s.sleep(randDuration(lo, hi))
		}
		if _, err := s.quotes.RefreshQuote(ctx, symbol); err != nil {
			slog.Error("symbol refresh failed", "symbol", symbol, "error", err)
			continue
		}
		n++
	}
	return n
}
