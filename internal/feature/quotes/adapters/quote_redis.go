// Package adapters provides durable quote store implementations.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/feature/quotes/usecase"
)

// quoteRedis stores quotes as JSON blobs in Redis, one key per symbol.
// Entries carry no TTL: staleness is bounded by the refresh cadence, not by
// per-read expiry.
type quoteRedis struct {
	rdb       *redis.Client
	namespace string
}

var _ usecase.QuoteStore = (*quoteRedis)(nil)

// NewQuoteRedis creates a Redis-backed quote store. If namespace is empty it
// uses "quotes".
func NewQuoteRedis(rdb *redis.Client, namespace string) *quoteRedis {
	if namespace == "" {
		namespace = "quotes"
	}
	return &quoteRedis{rdb: rdb, namespace: namespace}
}

// Get returns the stored quote for symbol, or usecase.ErrQuoteNotCached.
func (s *quoteRedis) Get(ctx context.Context, symbol string) (*entity.Quote, error) {
	b, err := s.rdb.Get(ctx, s.key(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrQuoteNotCached
		}
		return nil, err
	}

	var q entity.Quote
	if err := json.Unmarshal(b, &q); err != nil {
		// Drop the corrupted entry; the caller will re-fetch.
		_ = s.rdb.Del(ctx, s.key(symbol)).Err()
		return nil, usecase.ErrQuoteNotCached
	}
	return &q, nil
}

// Put replaces the stored quote for the symbol.
func (s *quoteRedis) Put(ctx context.Context, q *entity.Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(q.Symbol), b, 0).Err()
}

func (s *quoteRedis) key(symbol string) string {
	return fmt.Sprintf("%s:%s", s.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
