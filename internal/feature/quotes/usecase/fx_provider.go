package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// fxSeedRate is the USD/KRW rate assumed before the first successful
	// refresh.
	fxSeedRate = 1350.0

	// fxRefreshInterval is deliberately much longer than the quote cadence;
	// FX moves slowly relative to equities.
	fxRefreshInterval = 30 * time.Minute

	fxPairSymbol = "USD/KRW"
	fxWindowDays = 5
)

// RateSource is the secondary FX API, consulted when the primary market data
// provider cannot supply the pair.
type RateSource interface {
	LatestKRW(ctx context.Context) (float64, error)
}

// FxRateProvider maintains a cached USD/KRW rate. Refresh order on staleness:
// primary bar provider, then the secondary API, then retain the last known
// rate. Rate never fails; at worst it returns the seed.
type FxRateProvider struct {
	bars      BarProvider
	secondary RateSource

	mu        sync.Mutex
	rate      float64
	updatedAt time.Time
	now       func() time.Time
}

// NewFxRateProvider creates an FxRateProvider seeded with fxSeedRate.
func NewFxRateProvider(bars BarProvider, secondary RateSource) *FxRateProvider {
	return &FxRateProvider{
		bars:      bars,
		secondary: secondary,
		rate:      fxSeedRate,
		now:       time.Now,
	}
}

// Rate returns the current USD/KRW rate, refreshing first if the cached value
// is older than fxRefreshInterval.
func (p *FxRateProvider) Rate(ctx context.Context) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updatedAt.IsZero() || p.now().Sub(p.updatedAt) > fxRefreshInterval {
		p.refreshLocked(ctx)
	}
	return p.rate
}

// Refresh forces a refresh regardless of age. Called at the start of every
// scheduler cycle.
func (p *FxRateProvider) Refresh(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshLocked(ctx)
}

func (p *FxRateProvider) refreshLocked(ctx context.Context) {
	end := p.now()
	bars, err := p.bars.GetDailyBars(ctx, fxPairSymbol, end.AddDate(0, 0, -fxWindowDays), end)
	if err == nil && len(bars) > 0 && bars[len(bars)-1].Close > 0 {
		p.rate = bars[len(bars)-1].Close
		p.updatedAt = p.now()
		slog.Info("exchange rate updated from market data", "rate", p.rate)
		return
	}
	if err != nil {
		slog.Warn("primary exchange rate lookup failed", "error", err)
	}

	if p.secondary != nil {
		rate, err := p.secondary.LatestKRW(ctx)
		if err == nil && rate > 0 {
			p.rate = rate
			p.updatedAt = p.now()
			slog.Info("exchange rate updated from secondary API", "rate", p.rate)
			return
		}
		if err != nil {
			slog.Warn("secondary exchange rate lookup failed", "error", err)
		}
	}

	// Total failure: keep the last known rate and retry on the next call.
	slog.Warn("exchange rate refresh failed, keeping last known rate", "rate", p.rate)
}
