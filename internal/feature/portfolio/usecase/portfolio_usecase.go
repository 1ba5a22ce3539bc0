package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"stock_trading_backend/internal/feature/portfolio/domain"
	"stock_trading_backend/internal/feature/portfolio/domain/entity"
)

const (
	// DefaultTransactionLimit and MaxTransactionLimit bound history queries.
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 200
)

// HoldingView is one portfolio row enriched with the current quote.
type HoldingView struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Quantity          int64           `json:"quantity"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	OriginalPrice     float64         `json:"original_price,omitempty"`
	HoldingValue      decimal.Decimal `json:"holding_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent float64         `json:"profit_loss_percent"`
	Market            string          `json:"market"`
	Currency          string          `json:"currency"`
	ExchangeRate      float64         `json:"exchange_rate,omitempty"`
}

// PortfolioView is the full portfolio response.
type PortfolioView struct {
	Holdings        []HoldingView   `json:"holdings"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
	Cash            int64           `json:"cash"`
}

// PortfolioSummary aggregates the portfolio without per-holding detail.
type PortfolioSummary struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
	ReturnRate      float64         `json:"return_rate"`
	CashBalance     int64           `json:"cash_balance"`
	TotalAssets     decimal.Decimal `json:"total_assets"`
	HoldingsCount   int             `json:"holdings_count"`
}

// PortfolioUsecase builds portfolio read models from holdings and live quotes.
type PortfolioUsecase struct {
	store  LedgerStore
	quotes QuoteGetter
}

// NewPortfolioUsecase creates a PortfolioUsecase.
func NewPortfolioUsecase(store LedgerStore, quotes QuoteGetter) *PortfolioUsecase {
	return &PortfolioUsecase{store: store, quotes: quotes}
}

// currentPrices resolves KRW prices for every held symbol. Quote resolution
// never fails for a tracked symbol thanks to the fallback synthesizer, so a
// missing price only occurs on context cancellation.
func (u *PortfolioUsecase) currentPrices(ctx context.Context, holdings []entity.Holding) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		q, err := u.quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			return nil, err
		}
		prices[h.Symbol] = decimal.NewFromFloat(q.PriceKRW()).Round(4)
	}
	return prices, nil
}

// GetPortfolio returns the user's holdings with live prices and P&L.
func (u *PortfolioUsecase) GetPortfolio(ctx context.Context, userID uint) (*PortfolioView, error) {
	holdings, err := u.store.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := u.store.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{Holdings: make([]HoldingView, 0, len(holdings)), Cash: cash}
	prices := make(map[string]decimal.Decimal, len(holdings))

	for _, h := range holdings {
		q, err := u.quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			return nil, err
		}
		price := decimal.NewFromFloat(q.PriceKRW()).Round(4)
		prices[h.Symbol] = price

		qty := decimal.NewFromInt(h.Quantity)
		value := price.Mul(qty)
		pl := price.Sub(h.AvgPrice).Mul(qty)

		item := HoldingView{
			Symbol:        h.Symbol,
			Name:          q.Name,
			Quantity:      h.Quantity,
			PurchasePrice: h.AvgPrice,
			CurrentPrice:  price,
			HoldingValue:  value,
			ProfitLoss:    pl,
			Market:        h.Market,
			Currency:      q.Currency,
		}
		if invested := h.AvgPrice.Mul(qty); invested.IsPositive() {
			pct, _ := pl.Div(invested).Mul(decimal.NewFromInt(100)).Float64()
			item.ProfitLossPercent = pct
		}
		if q.Currency == marketUSD {
			item.OriginalPrice = q.CurrentPrice
			item.ExchangeRate = q.ExchangeRate
		}
		view.Holdings = append(view.Holdings, item)
	}

	v := domain.Valuate(holdings, prices)
	view.TotalValue = v.HoldingValue
	view.TotalProfitLoss = v.TotalProfitLoss
	return view, nil
}

// GetSummary returns portfolio totals plus cash and total assets.
func (u *PortfolioUsecase) GetSummary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	holdings, err := u.store.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := u.store.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	prices, err := u.currentPrices(ctx, holdings)
	if err != nil {
		return nil, err
	}

	v := domain.Valuate(holdings, prices)
	return &PortfolioSummary{
		TotalValue:      v.HoldingValue,
		TotalInvestment: v.TotalInvestment,
		TotalProfitLoss: v.TotalProfitLoss,
		ReturnRate:      v.ReturnRate,
		CashBalance:     cash,
		TotalAssets:     v.HoldingValue.Add(decimal.NewFromInt(cash)),
		HoldingsCount:   len(holdings),
	}, nil
}

// GetTransactions returns the user's trade history, newest first. The limit
// defaults to DefaultTransactionLimit and is capped at MaxTransactionLimit.
func (u *PortfolioUsecase) GetTransactions(ctx context.Context, userID uint, limit int) ([]entity.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	return u.store.Transactions(ctx, userID, limit)
}
