package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/feature/quotes/usecase"
)

func testQuote() *entity.Quote {
	return &entity.Quote{
		Symbol:        "005930",
		Name:          "Samsung Electronics",
		CurrentPrice:  70000,
		PreviousClose: 69000,
		Market:        "KRW",
		Currency:      "KRW",
		UpdatedAt:     time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewQuoteRedis_DefaultNamespace(t *testing.T) {
	rdb, _ := redismock.NewClientMock()

	repo := NewQuoteRedis(rdb, "")

	if repo.namespace != "quotes" {
		t.Errorf("expected namespace 'quotes', got %q", repo.namespace)
	}
}

func TestQuoteRedis_Get(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		want := testQuote()
		b, _ := json.Marshal(want)
		mock.ExpectGet("quotes:005930").SetVal(string(b))

		got, err := repo.Get(context.Background(), "005930")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Symbol != want.Symbol || got.CurrentPrice != want.CurrentPrice {
			t.Errorf("quote mismatch: %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("miss maps to ErrQuoteNotCached", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		mock.ExpectGet("quotes:005930").RedisNil()

		_, err := repo.Get(context.Background(), "005930")

		if !errors.Is(err, usecase.ErrQuoteNotCached) {
			t.Errorf("expected ErrQuoteNotCached, got %v", err)
		}
	})

	t.Run("corrupt entry is dropped and reported as miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		mock.ExpectGet("quotes:005930").SetVal("{not json")
		mock.ExpectDel("quotes:005930").SetVal(1)

		_, err := repo.Get(context.Background(), "005930")

		if !errors.Is(err, usecase.ErrQuoteNotCached) {
			t.Errorf("expected ErrQuoteNotCached, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("transport error is passed through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		mock.ExpectGet("quotes:005930").SetErr(errors.New("connection refused"))

		_, err := repo.Get(context.Background(), "005930")

		if err == nil || errors.Is(err, usecase.ErrQuoteNotCached) {
			t.Errorf("expected transport error, got %v", err)
		}
	})
}

func TestQuoteRedis_Put(t *testing.T) {
	t.Run("stores json without expiry", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		q := testQuote()
		b, _ := json.Marshal(q)
		mock.ExpectSet("quotes:005930", b, 0).SetVal("OK")

		if err := repo.Put(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("escapes key characters", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := NewQuoteRedis(rdb, "quotes")

		q := testQuote()
		q.Symbol = "USD/KRW pair:test"
		b, _ := json.Marshal(q)
		mock.ExpectSet("quotes:USD/KRW_pair_test", b, 0).SetVal("OK")

		if err := repo.Put(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}
