// Package domain holds pure portfolio computations.
package domain

import (
	"github.com/shopspring/decimal"

	"stock_trading_backend/internal/feature/portfolio/domain/entity"
)

// Valuation aggregates a portfolio against a KRW price map. All fields are in
// KRW except ReturnRate (percent).
type Valuation struct {
	HoldingValue    decimal.Decimal
	TotalProfitLoss decimal.Decimal
	TotalInvestment decimal.Decimal
	ReturnRate      float64
}

// Valuate derives market value, unrealized P&L and return rate for the given
// holdings. Symbols missing from the price map contribute only to the
// investment total. Pure function, no side effects.
func Valuate(holdings []entity.Holding, prices map[string]decimal.Decimal) Valuation {
	var v Valuation
	for _, h := range holdings {
		qty := decimal.NewFromInt(h.Quantity)
		v.TotalInvestment = v.TotalInvestment.Add(h.AvgPrice.Mul(qty))

		price, ok := prices[h.Symbol]
		if !ok {
			continue
		}
		v.HoldingValue = v.HoldingValue.Add(price.Mul(qty))
		v.TotalProfitLoss = v.TotalProfitLoss.Add(price.Sub(h.AvgPrice).Mul(qty))
	}
	if v.TotalInvestment.IsPositive() {
		rate, _ := v.TotalProfitLoss.Div(v.TotalInvestment).Mul(decimal.NewFromInt(100)).Float64()
		v.ReturnRate = rate
	}
	return v
}
