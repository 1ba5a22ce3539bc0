package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/feature/quotes/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockQuotesUsecase simulates the quote pipeline during handler testing.
type mockQuotesUsecase struct {
	GetQuoteFunc         func(ctx context.Context, symbol string) (*entity.Quote, error)
	GetMultipleFunc      func(ctx context.Context, symbols []string) ([]*entity.Quote, error)
	GetMarketSummaryFunc func(ctx context.Context) *usecase.MarketSummary
	SearchFunc           func(ctx context.Context, query string) ([]*entity.Quote, error)
	GetHistoryFunc       func(ctx context.Context, symbol string, days int) ([]entity.Bar, error)
}

func (m *mockQuotesUsecase) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	if m.GetQuoteFunc != nil {
		return m.GetQuoteFunc(ctx, symbol)
	}
	return nil, usecase.ErrQuoteNotFound
}

func (m *mockQuotesUsecase) GetMultiple(ctx context.Context, symbols []string) ([]*entity.Quote, error) {
	if m.GetMultipleFunc != nil {
		return m.GetMultipleFunc(ctx, symbols)
	}
	return nil, nil
}

func (m *mockQuotesUsecase) GetMarketSummary(ctx context.Context) *usecase.MarketSummary {
	if m.GetMarketSummaryFunc != nil {
		return m.GetMarketSummaryFunc(ctx)
	}
	return &usecase.MarketSummary{}
}

func (m *mockQuotesUsecase) Search(ctx context.Context, query string) ([]*entity.Quote, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockQuotesUsecase) GetHistory(ctx context.Context, symbol string, days int) ([]entity.Bar, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, symbol, days)
	}
	return nil, nil
}

func setupRouter(uc QuotesUsecase) *gin.Engine {
	h := NewQuoteHandler(uc)
	r := gin.New()
	stocks := r.Group("/stocks")
	{
		stocks.GET("/market-summary", h.MarketSummary)
		stocks.GET("/search", h.Search)
		stocks.POST("/multiple", h.GetMultiple)
		stocks.GET("/price/:symbol", h.GetPrice)
		stocks.GET("/history/:symbol", h.GetHistory)
		stocks.GET("/:symbol", h.GetQuote)
	}
	return r
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func sampleQuote(symbol string) *entity.Quote {
	return &entity.Quote{
		Symbol:        symbol,
		Name:          "Samsung Electronics",
		CurrentPrice:  70000,
		PreviousClose: 69000,
		Change:        1000,
		ChangePercent: 1.45,
		Market:        "KOSPI",
		Currency:      "KRW",
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestQuoteHandler_GetQuote(t *testing.T) {
	t.Run("known symbol", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.Quote, error) {
				return sampleQuote(symbol), nil
			},
		}

		w := get(setupRouter(uc), "/stocks/005930")

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var quote entity.Quote
		if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if quote.Symbol != "005930" || quote.CurrentPrice != 70000 {
			t.Errorf("unexpected quote: %+v", quote)
		}
	})

	t.Run("unknown symbol returns 404", func(t *testing.T) {
		w := get(setupRouter(&mockQuotesUsecase{}), "/stocks/UNKNOWN")

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_GetPrice(t *testing.T) {
	uc := &mockQuotesUsecase{
		GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.Quote, error) {
			return sampleQuote(symbol), nil
		},
	}

	w := get(setupRouter(uc), "/stocks/price/005930")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["current_price"] != float64(70000) {
		t.Errorf("expected current_price 70000, got %v", resp["current_price"])
	}
	// The trimmed view must not carry full quote fields.
	if _, ok := resp["previous_close"]; ok {
		t.Error("price view should not include previous_close")
	}
}

func TestQuoteHandler_GetMultiple(t *testing.T) {
	t.Run("returns quotes in request order", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			GetMultipleFunc: func(ctx context.Context, symbols []string) ([]*entity.Quote, error) {
				out := make([]*entity.Quote, 0, len(symbols))
				for _, s := range symbols {
					out = append(out, sampleQuote(s))
				}
				return out, nil
			},
		}

		body, _ := json.Marshal(map[string][]string{"symbols": {"005930", "AAPL"}})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stocks/multiple", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Quotes []*entity.Quote `json:"quotes"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if len(resp.Quotes) != 2 || resp.Quotes[0].Symbol != "005930" || resp.Quotes[1].Symbol != "AAPL" {
			t.Errorf("unexpected quotes: %+v", resp.Quotes)
		}
	})

	t.Run("empty symbol list returns 400", func(t *testing.T) {
		body := []byte(`{"symbols": []}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stocks/multiple", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(&mockQuotesUsecase{}).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("upstream failure returns 502", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			GetMultipleFunc: func(ctx context.Context, symbols []string) ([]*entity.Quote, error) {
				return nil, errors.New("upstream down")
			},
		}

		body := []byte(`{"symbols": ["005930"]}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stocks/multiple", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_MarketSummary(t *testing.T) {
	uc := &mockQuotesUsecase{
		GetMarketSummaryFunc: func(ctx context.Context) *usecase.MarketSummary {
			return &usecase.MarketSummary{
				KoreanMarket: []*entity.Quote{sampleQuote("005930")},
				ExchangeRate: 1350,
			}
		},
	}

	w := get(setupRouter(uc), "/stocks/market-summary")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp usecase.MarketSummary
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.ExchangeRate != 1350 || len(resp.KoreanMarket) != 1 {
		t.Errorf("unexpected summary: %+v", resp)
	}
}

func TestQuoteHandler_Search(t *testing.T) {
	t.Run("matching query returns results with a count", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			SearchFunc: func(ctx context.Context, query string) ([]*entity.Quote, error) {
				return []*entity.Quote{sampleQuote("005930")}, nil
			},
		}

		w := get(setupRouter(uc), "/stocks/search?q=samsung")

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp struct {
			Results []*entity.Quote `json:"results"`
			Count   int             `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Count != 1 || len(resp.Results) != 1 {
			t.Errorf("unexpected search response: %+v", resp)
		}
	})

	t.Run("blank query returns 400", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			SearchFunc: func(ctx context.Context, query string) ([]*entity.Quote, error) {
				return nil, usecase.ErrEmptyQuery
			},
		}

		w := get(setupRouter(uc), "/stocks/search")

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("lookup failure returns 502", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			SearchFunc: func(ctx context.Context, query string) ([]*entity.Quote, error) {
				return nil, errors.New("upstream down")
			},
		}

		w := get(setupRouter(uc), "/stocks/search?q=samsung")

		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_GetHistory(t *testing.T) {
	t.Run("days query is forwarded and bars are formatted", func(t *testing.T) {
		var gotDays int
		uc := &mockQuotesUsecase{
			GetHistoryFunc: func(ctx context.Context, symbol string, days int) ([]entity.Bar, error) {
				gotDays = days
				return []entity.Bar{{
					Time:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
					Open:   69000,
					High:   71000,
					Low:    68500,
					Close:  70000,
					Volume: 12000000,
				}}, nil
			},
		}

		w := get(setupRouter(uc), "/stocks/history/005930?days=7")

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotDays != 7 {
			t.Errorf("expected days=7, got %d", gotDays)
		}
		var resp struct {
			Symbol string `json:"symbol"`
			Bars   []struct {
				Date  string  `json:"date"`
				Close float64 `json:"close"`
			} `json:"bars"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Symbol != "005930" || len(resp.Bars) != 1 {
			t.Fatalf("unexpected history response: %+v", resp)
		}
		if resp.Bars[0].Date != "2026-08-28" || resp.Bars[0].Close != 70000 {
			t.Errorf("unexpected bar: %+v", resp.Bars[0])
		}
	})

	t.Run("missing days falls back to the default window", func(t *testing.T) {
		var gotDays int
		uc := &mockQuotesUsecase{
			GetHistoryFunc: func(ctx context.Context, symbol string, days int) ([]entity.Bar, error) {
				gotDays = days
				return nil, nil
			},
		}

		w := get(setupRouter(uc), "/stocks/history/005930")

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotDays != 30 {
			t.Errorf("expected the default of 30 days, got %d", gotDays)
		}
	})

	t.Run("lookup failure returns 502", func(t *testing.T) {
		uc := &mockQuotesUsecase{
			GetHistoryFunc: func(ctx context.Context, symbol string, days int) ([]entity.Bar, error) {
				return nil, errors.New("upstream down")
			},
		}

		w := get(setupRouter(uc), "/stocks/history/005930")

		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
	})
}
