package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock_trading_backend/internal/feature/quotes/domain/entity"
)

// mockBarProvider is a mock implementation of the BarProvider interface.
type mockBarProvider struct {
	mu    sync.Mutex
	calls int
	// GetDailyBarsFunc is called when the GetDailyBars method is invoked.
	GetDailyBarsFunc func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error)
}

func (m *mockBarProvider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GetDailyBarsFunc != nil {
		return m.GetDailyBarsFunc(ctx, symbol, start, end)
	}
	return nil, errors.New("no bars")
}

func (m *mockBarProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memStore is an in-memory QuoteStore.
type memStore struct {
	mu     sync.Mutex
	quotes map[string]*entity.Quote
	puts   int
}

func newMemStore() *memStore {
	return &memStore{quotes: make(map[string]*entity.Quote)}
}

func (s *memStore) Get(ctx context.Context, symbol string) (*entity.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, ErrQuoteNotCached
	}
	return q, nil
}

func (s *memStore) Put(ctx context.Context, q *entity.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Symbol] = q
	s.puts++
	return nil
}

// noopLimiter satisfies RateLimiterInterface without waiting.
type noopLimiter struct{}

func (noopLimiter) WaitIfNeeded() {}

func bar(day int, close float64) entity.Bar {
	return entity.Bar{
		Time:   time.Date(2025, 8, day, 0, 0, 0, 0, time.UTC),
		Open:   close * 0.99,
		High:   close * 1.01,
		Low:    close * 0.98,
		Close:  close,
		Volume: 1_000_000,
	}
}

func barsProvider(bars ...entity.Bar) *mockBarProvider {
	return &mockBarProvider{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
			return bars, nil
		},
	}
}

// newTestUsecase builds a QuoteUsecase whose sleeps are instantaneous and
// whose FX provider always fails over to the seed rate.
func newTestUsecase(provider *mockBarProvider, store QuoteStore) *QuoteUsecase {
	fxBars := &mockBarProvider{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
			return nil, errors.New("fx unavailable")
		},
	}
	fx := NewFxRateProvider(fxBars, nil)
	uc := NewQuoteUsecase(provider, store, fx, noopLimiter{})
	uc.sleep = func(time.Duration) {}
	return uc
}

func TestQuoteUsecase_GetQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch builds quote from latest bars", func(t *testing.T) {
		provider := barsProvider(bar(1, 69000), bar(2, 70000))
		uc := newTestUsecase(provider, newMemStore())

		q, err := uc.GetQuote(ctx, "005930")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.CurrentPrice != 70000 {
			t.Errorf("expected price 70000, got %f", q.CurrentPrice)
		}
		if q.PreviousClose != 69000 {
			t.Errorf("expected previous close 69000, got %f", q.PreviousClose)
		}
		if q.Change != 1000 {
			t.Errorf("expected change 1000, got %f", q.Change)
		}
		if q.Market != "KRW" || q.Currency != "KRW" {
			t.Errorf("expected KRW market, got %s/%s", q.Market, q.Currency)
		}
		if q.Fallback {
			t.Error("live quote must not be marked fallback")
		}
		if q.Name != "Samsung Electronics" {
			t.Errorf("unexpected name %q", q.Name)
		}
	})

	t.Run("second read hits memory cache", func(t *testing.T) {
		provider := barsProvider(bar(1, 69000), bar(2, 70000))
		uc := newTestUsecase(provider, newMemStore())

		first, err := uc.GetQuote(ctx, "005930")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := uc.GetQuote(ctx, "005930")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if provider.callCount() != 1 {
			t.Errorf("expected one provider call, got %d", provider.callCount())
		}
		if first != second {
			t.Error("cached read should return the same quote")
		}
	})

	t.Run("durable store hit skips the provider", func(t *testing.T) {
		store := newMemStore()
		store.quotes["005930"] = &entity.Quote{Symbol: "005930", CurrentPrice: 71000}
		provider := &mockBarProvider{}
		uc := newTestUsecase(provider, store)

		q, err := uc.GetQuote(ctx, "005930")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.CurrentPrice != 71000 {
			t.Errorf("expected stored price 71000, got %f", q.CurrentPrice)
		}
		if provider.callCount() != 0 {
			t.Errorf("provider should not be called, got %d calls", provider.callCount())
		}
	})

	t.Run("successful fetch writes through to the store", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUsecase(barsProvider(bar(1, 69000), bar(2, 70000)), store)

		if _, err := uc.GetQuote(ctx, "005930"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.puts != 1 {
			t.Errorf("expected one store write, got %d", store.puts)
		}
	})

	t.Run("single bar synthesizes previous close", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(2, 70000)), newMemStore())

		q, err := uc.GetQuote(ctx, "005930")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.PreviousClose != 70000*0.99 {
			t.Errorf("expected synthetic previous close %f, got %f", 70000*0.99, q.PreviousClose)
		}
	})

	t.Run("usd quote carries the exchange rate", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 99), bar(2, 100)), newMemStore())

		q, err := uc.GetQuote(ctx, "AAPL")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Market != "USD" {
			t.Errorf("expected USD market, got %s", q.Market)
		}
		if q.ExchangeRate != 1350 {
			t.Errorf("expected seed rate 1350, got %f", q.ExchangeRate)
		}
	})
}

func TestQuoteUsecase_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("transient failures are retried", func(t *testing.T) {
		attempts := 0
		provider := &mockBarProvider{
			GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
				attempts++
				if attempts < 3 {
					return nil, errors.New("temporarily unavailable")
				}
				return []entity.Bar{bar(1, 69000), bar(2, 70000)}, nil
			},
		}
		uc := newTestUsecase(provider, newMemStore())

		var sleeps []time.Duration
		uc.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

		q, err := uc.GetQuote(ctx, "005930")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Fallback {
			t.Error("retried fetch should produce a live quote")
		}
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
		// The [2,5]s base window scales with the attempt index: [4,10]s
		// before the second attempt, [6,15]s before the third.
		if len(sleeps) != 2 {
			t.Fatalf("expected 2 backoff sleeps, got %d", len(sleeps))
		}
		if sleeps[0] < 4*time.Second || sleeps[0] > 10*time.Second {
			t.Errorf("first backoff %v outside [4s, 10s]", sleeps[0])
		}
		if sleeps[1] < 6*time.Second || sleeps[1] > 15*time.Second {
			t.Errorf("second backoff %v outside [6s, 15s]", sleeps[1])
		}
	})

	t.Run("exhausted retries fall back to a synthetic quote", func(t *testing.T) {
		provider := &mockBarProvider{}
		uc := newTestUsecase(provider, newMemStore())

		q, err := uc.GetQuote(ctx, "005930")

		if err != nil {
			t.Fatalf("fallback must not fail: %v", err)
		}
		if !q.Fallback {
			t.Error("expected fallback quote")
		}
		if provider.callCount() != fetchAttempts {
			t.Errorf("expected %d attempts, got %d", fetchAttempts, provider.callCount())
		}
	})

	t.Run("out of band usd close is rejected", func(t *testing.T) {
		provider := barsProvider(bar(1, 99), bar(2, 60000))
		uc := newTestUsecase(provider, newMemStore())

		q, err := uc.GetQuote(ctx, "AAPL")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !q.Fallback {
			t.Error("corrupt USD close should force the fallback path")
		}
		if provider.callCount() != fetchAttempts {
			t.Errorf("expected %d attempts, got %d", fetchAttempts, provider.callCount())
		}
	})

	t.Run("korean close has no band check", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 790000), bar(2, 800000)), newMemStore())

		q, err := uc.GetQuote(ctx, "207940")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Fallback {
			t.Error("high KRW close is valid and must not trigger fallback")
		}
	})

	t.Run("cancelled context aborts without fallback", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		uc := newTestUsecase(&mockBarProvider{}, newMemStore())

		_, err := uc.GetQuote(cancelled, "005930")

		if !errors.Is(err, ErrQuoteNotFound) {
			t.Errorf("expected ErrQuoteNotFound, got %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", err)
		}
	})
}

func TestQuoteUsecase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		uc := newTestUsecase(&mockBarProvider{}, newMemStore())
		if _, err := uc.Search(ctx, "   "); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("expected ErrEmptyQuery, got %v", err)
		}
	})

	t.Run("matches by name case-insensitively", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 69000), bar(2, 70000)), newMemStore())

		results, err := uc.Search(ctx, "naver")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].Symbol != "035420" {
			t.Errorf("expected NAVER, got %+v", results)
		}
	})

	t.Run("matches by symbol", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 99), bar(2, 100)), newMemStore())

		results, err := uc.Search(ctx, "AAPL")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].Symbol != "AAPL" {
			t.Errorf("expected AAPL, got %+v", results)
		}
	})

	t.Run("result count is capped", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 99), bar(2, 100)), newMemStore())

		// "0" appears in every numeric KR code.
		results, err := uc.Search(ctx, "0")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != maxSearchResults {
			t.Errorf("expected %d results, got %d", maxSearchResults, len(results))
		}
	})
}

func TestQuoteUsecase_GetMarketSummary(t *testing.T) {
	ctx := context.Background()
	uc := newTestUsecase(&mockBarProvider{}, newMemStore())

	// Warm two symbols; the summary must not fetch the rest.
	uc.putQuote(ctx, &entity.Quote{Symbol: "005930", CurrentPrice: 70000})
	uc.putQuote(ctx, &entity.Quote{Symbol: "AAPL", CurrentPrice: 100})

	s := uc.GetMarketSummary(ctx)

	if len(s.KoreanMarket) != 1 || s.KoreanMarket[0].Symbol != "005930" {
		t.Errorf("expected one KR quote, got %+v", s.KoreanMarket)
	}
	if len(s.USMarket) != 1 || s.USMarket[0].Symbol != "AAPL" {
		t.Errorf("expected one US quote, got %+v", s.USMarket)
	}
	if s.ExchangeRate != 1350 {
		t.Errorf("expected seed rate 1350, got %f", s.ExchangeRate)
	}
}

func TestQuoteUsecase_GetMultiple(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hits need no pacing", func(t *testing.T) {
		uc := newTestUsecase(&mockBarProvider{}, newMemStore())
		uc.putQuote(ctx, &entity.Quote{Symbol: "005930"})
		uc.putQuote(ctx, &entity.Quote{Symbol: "000660"})

		slept := false
		uc.sleep = func(time.Duration) { slept = true }

		out, err := uc.GetMultiple(ctx, []string{"005930", "000660"})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Errorf("expected 2 quotes, got %d", len(out))
		}
		if slept {
			t.Error("cache hits must not pace")
		}
	})

	t.Run("misses are fetched in order", func(t *testing.T) {
		uc := newTestUsecase(barsProvider(bar(1, 69000), bar(2, 70000)), newMemStore())

		out, err := uc.GetMultiple(ctx, []string{"005930", "000660"})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(out))
		}
		if out[0].Symbol != "005930" || out[1].Symbol != "000660" {
			t.Errorf("order not preserved: %s, %s", out[0].Symbol, out[1].Symbol)
		}
	})
}

func TestQuoteUsecase_GetHistory(t *testing.T) {
	ctx := context.Background()

	var gotStart, gotEnd time.Time
	provider := &mockBarProvider{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
			gotStart, gotEnd = start, end
			return []entity.Bar{bar(1, 70000)}, nil
		},
	}
	uc := newTestUsecase(provider, newMemStore())

	t.Run("window matches requested days", func(t *testing.T) {
		if _, err := uc.GetHistory(ctx, "005930", 90); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		days := int(gotEnd.Sub(gotStart).Hours() / 24)
		if days < 89 || days > 91 {
			t.Errorf("expected ~90 day window, got %d", days)
		}
	})

	t.Run("invalid days fall back to default", func(t *testing.T) {
		if _, err := uc.GetHistory(ctx, "005930", -1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		days := int(gotEnd.Sub(gotStart).Hours() / 24)
		if days < DefaultHistoryDays-1 || days > DefaultHistoryDays+1 {
			t.Errorf("expected default window, got %d days", days)
		}

		if _, err := uc.GetHistory(ctx, "005930", MaxHistoryDays+1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		days = int(gotEnd.Sub(gotStart).Hours() / 24)
		if days < DefaultHistoryDays-1 || days > DefaultHistoryDays+1 {
			t.Errorf("oversized request should use default window, got %d days", days)
		}
	})
}
