// Package handler provides the HTTP handlers for the portfolio feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_trading_backend/internal/api"
	"stock_trading_backend/internal/feature/portfolio/domain/entity"
	"stock_trading_backend/internal/feature/portfolio/transport/http/dto"
	"stock_trading_backend/internal/feature/portfolio/usecase"
	jwtmw "stock_trading_backend/internal/platform/jwt"
)

// TradingUsecase defines the order operations the handler depends on.
type TradingUsecase interface {
	Buy(ctx context.Context, userID uint, symbol string, quantity int64) (*usecase.TradeResult, error)
	Sell(ctx context.Context, userID uint, symbol string, quantity int64) (*usecase.TradeResult, error)
	MaxBuyQuantity(ctx context.Context, userID uint, symbol string) (*usecase.MaxBuyResult, error)
}

// PortfolioUsecase defines the read operations the handler depends on.
type PortfolioUsecase interface {
	GetPortfolio(ctx context.Context, userID uint) (*usecase.PortfolioView, error)
	GetSummary(ctx context.Context, userID uint) (*usecase.PortfolioSummary, error)
	GetTransactions(ctx context.Context, userID uint, limit int) ([]entity.Transaction, error)
}

// PortfolioHandler serves trades, holdings views and trade history.
type PortfolioHandler struct {
	trading   TradingUsecase
	portfolio PortfolioUsecase
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(trading TradingUsecase, portfolio PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{trading: trading, portfolio: portfolio}
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
	}
	return userID, ok
}

// tradeStatus maps a trading error to its HTTP status.
func tradeStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrStockNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInsufficientFunds),
		errors.Is(err, usecase.ErrNoPosition),
		errors.Is(err, usecase.ErrInsufficientPosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Buy handles POST /portfolio/buy.
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	result, err := h.trading.Buy(c.Request.Context(), userID, req.Symbol, req.Quantity)
	if err != nil {
		slog.Warn("buy order rejected", "user_id", userID, "symbol", req.Symbol,
			"quantity", req.Quantity, "error", err)
		c.JSON(tradeStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	slog.Info("buy order executed", "user_id", userID, "symbol", result.Symbol,
		"quantity", result.Quantity, "total_cost", result.TotalCost)
	c.JSON(http.StatusOK, result)
}

// Sell handles POST /portfolio/sell.
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	result, err := h.trading.Sell(c.Request.Context(), userID, req.Symbol, req.Quantity)
	if err != nil {
		slog.Warn("sell order rejected", "user_id", userID, "symbol", req.Symbol,
			"quantity", req.Quantity, "error", err)
		c.JSON(tradeStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	slog.Info("sell order executed", "user_id", userID, "symbol", result.Symbol,
		"quantity", result.Quantity, "net_amount", result.NetAmount)
	c.JSON(http.StatusOK, result)
}

// MaxBuy handles GET /portfolio/max-buy/:symbol.
func (h *PortfolioHandler) MaxBuy(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	symbol := c.Param("symbol")
	result, err := h.trading.MaxBuyQuantity(c.Request.Context(), userID, symbol)
	if err != nil {
		c.JSON(tradeStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPortfolio handles GET /portfolio.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.portfolio.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		slog.Error("portfolio read failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "portfolio unavailable"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetSummary handles GET /portfolio/summary.
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.portfolio.GetSummary(c.Request.Context(), userID)
	if err != nil {
		slog.Error("portfolio summary failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "summary unavailable"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTransactions handles GET /portfolio/transactions?limit=50.
func (h *PortfolioHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	txs, err := h.portfolio.GetTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		slog.Error("transaction history failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "history unavailable"})
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.TransactionResponse{
			ID:          tx.ID,
			Symbol:      tx.Symbol,
			Side:        tx.Side,
			Quantity:    tx.Quantity,
			Price:       tx.Price,
			Commission:  tx.Commission,
			TotalAmount: tx.TotalAmount,
			Market:      tx.Market,
			CreatedAt:   tx.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out, "count": len(out)})
}
