// Package handler provides the HTTP handlers for the quotes feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_trading_backend/internal/api"
	"stock_trading_backend/internal/feature/quotes/domain/entity"
	"stock_trading_backend/internal/feature/quotes/transport/http/dto"
	"stock_trading_backend/internal/feature/quotes/usecase"
)

// QuotesUsecase defines the quote operations the handler depends on.
type QuotesUsecase interface {
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
	GetMultiple(ctx context.Context, symbols []string) ([]*entity.Quote, error)
	GetMarketSummary(ctx context.Context) *usecase.MarketSummary
	Search(ctx context.Context, query string) ([]*entity.Quote, error)
	GetHistory(ctx context.Context, symbol string, days int) ([]entity.Bar, error)
}

// QuoteHandler serves price lookups, search and market summaries.
type QuoteHandler struct {
	uc QuotesUsecase
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(uc QuotesUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// GetQuote handles GET /stocks/:symbol.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.uc.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		slog.Warn("quote lookup failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "quote not available"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetPrice handles GET /stocks/price/:symbol, a trimmed view for polling
// clients that only track the latest price.
func (h *QuoteHandler) GetPrice(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.uc.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "quote not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":         quote.Symbol,
		"current_price":  quote.CurrentPrice,
		"change":         quote.Change,
		"change_percent": quote.ChangePercent,
		"currency":       quote.Currency,
		"updated_at":     quote.UpdatedAt,
	})
}

// GetMultiple handles POST /stocks/multiple.
func (h *QuoteHandler) GetMultiple(c *gin.Context) {
	var req dto.MultiQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	quotes, err := h.uc.GetMultiple(c.Request.Context(), req.Symbols)
	if err != nil {
		slog.Warn("multi quote lookup failed", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "quote lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// MarketSummary handles GET /stocks/market-summary.
func (h *QuoteHandler) MarketSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.uc.GetMarketSummary(c.Request.Context()))
}

// Search handles GET /stocks/search?q=term.
func (h *QuoteHandler) Search(c *gin.Context) {
	query := c.Query("q")
	results, err := h.uc.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
			return
		}
		slog.Warn("symbol search failed", "query", query, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// GetHistory handles GET /stocks/history/:symbol?days=30.
func (h *QuoteHandler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	bars, err := h.uc.GetHistory(c.Request.Context(), symbol, days)
	if err != nil {
		slog.Warn("history lookup failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "history not available"})
		return
	}

	out := make([]dto.BarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, dto.BarResponse{
			Date:   b.Time.UTC().Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "bars": out})
}
