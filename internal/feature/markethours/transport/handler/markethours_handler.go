// Package handler provides the HTTP handlers for the markethours feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_trading_backend/internal/api"
	"stock_trading_backend/internal/feature/markethours/domain/entity"
	"stock_trading_backend/internal/feature/markethours/usecase"
)

// MarketHoursUsecase defines the session queries the handler depends on.
type MarketHoursUsecase interface {
	List(ctx context.Context) ([]entity.MarketHours, error)
	Status(ctx context.Context, market string) (*usecase.MarketStatus, error)
	StatusAll(ctx context.Context) ([]*usecase.MarketStatus, error)
}

// MarketHoursHandler serves trading session information.
type MarketHoursHandler struct {
	uc MarketHoursUsecase
}

// NewMarketHoursHandler creates a MarketHoursHandler.
func NewMarketHoursHandler(uc MarketHoursUsecase) *MarketHoursHandler {
	return &MarketHoursHandler{uc: uc}
}

// List handles GET /markets/hours.
func (h *MarketHoursHandler) List(c *gin.Context) {
	hours, err := h.uc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "market hours unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": hours})
}

// StatusAll handles GET /markets/status.
func (h *MarketHoursHandler) StatusAll(c *gin.Context) {
	statuses, err := h.uc.StatusAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "status unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": statuses})
}

// Status handles GET /markets/:market/status.
func (h *MarketHoursHandler) Status(c *gin.Context) {
	status, err := h.uc.Status(c.Request.Context(), c.Param("market"))
	if err != nil {
		if errors.Is(err, usecase.ErrMarketNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "unknown market"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "status unavailable"})
		return
	}
	c.JSON(http.StatusOK, status)
}
