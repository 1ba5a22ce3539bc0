// Package findata provides a client for the daily-bar market data API.
package findata

import (
	"os"
	"time"
)

// Config holds configuration for the market data API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads market data configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("FINDATA_API_KEY"),
		BaseURL: os.Getenv("FINDATA_BASE_URL"),
		Timeout: 10 * time.Second,
	}
}
