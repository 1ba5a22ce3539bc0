// Package exchangerate provides the secondary FX rate source, a free JSON API
// queried only when the primary market data provider cannot supply USD/KRW.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

const defaultBaseURL = "https://api.exchangerate-api.com"

// Client queries the exchange rate API for the latest USD rates.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client. The base URL can be overridden with
// EXCHANGE_RATE_BASE_URL (used by tests and local stubs).
func NewClient(client *http.Client) *Client {
	base := os.Getenv("EXCHANGE_RATE_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{baseURL: base, client: client}
}

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// LatestKRW returns the current USD/KRW rate.
func (c *Client) LatestKRW(ctx context.Context) (float64, error) {
	u := c.baseURL + "/v4/latest/USD"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchangerate http %d", res.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, err
	}
	rate, ok := body.Rates["KRW"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchangerate: KRW rate missing")
	}
	return rate, nil
}
