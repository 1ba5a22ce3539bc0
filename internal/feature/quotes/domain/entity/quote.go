// Package entity defines the domain models for the quotes feature.
package entity

import "time"

// Bar is a single daily OHLCV bar as returned by the upstream data provider.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Quote is a point-in-time snapshot of an instrument's price data.
// A Quote is always replaced wholesale on refresh, never partially mutated.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousClose float64   `json:"previous_close"`
	OpenPrice     float64   `json:"open_price"`
	HighPrice     float64   `json:"high_price"`
	LowPrice      float64   `json:"low_price"`
	Volume        int64     `json:"volume"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Market        string    `json:"market"`
	Currency      string    `json:"currency"`

	// ExchangeRate is the USD/KRW rate in effect when the quote was captured.
	// Set only for USD instruments, so that downstream KRW conversion uses the
	// rate paired with this quote rather than a possibly different current rate.
	ExchangeRate float64 `json:"exchange_rate,omitempty"`

	// Fallback marks quotes synthesized locally after the upstream provider
	// exhausted its retries.
	Fallback bool `json:"fallback,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// PriceKRW returns the quote's current price expressed in KRW, applying the
// captured exchange rate for USD instruments.
func (q *Quote) PriceKRW() float64 {
	if q.Currency == "USD" && q.ExchangeRate > 0 {
		return q.CurrentPrice * q.ExchangeRate
	}
	return q.CurrentPrice
}
