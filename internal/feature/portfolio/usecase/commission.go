package usecase

import (
	"github.com/shopspring/decimal"

	qentity "stock_trading_backend/internal/feature/quotes/domain/entity"
)

const (
	marketKRW = "KRW"
	marketUSD = "USD"
)

// Commission schedule per market. The USD minimum is roughly one dollar
// expressed in KRW.
var (
	commissionRates = map[string]decimal.Decimal{
		marketKRW: decimal.NewFromFloat(0.00015),
		marketUSD: decimal.NewFromFloat(0.00005),
	}
	minCommissions = map[string]int64{
		marketKRW: 1000,
		marketUSD: 1350,
	}

	defaultCommissionRate = decimal.NewFromFloat(0.001)
)

func commissionRateFor(market string) decimal.Decimal {
	if r, ok := commissionRates[market]; ok {
		return r
	}
	return defaultCommissionRate
}

func minCommissionFor(market string) int64 {
	if m, ok := minCommissions[market]; ok {
		return m
	}
	return minCommissions[marketKRW]
}

// commissionFor computes the rounded commission in KRW, never below the
// market's minimum.
func commissionFor(totalAmount int64, market string) int64 {
	c := decimal.NewFromInt(totalAmount).Mul(commissionRateFor(market)).Round(0).IntPart()
	if min := minCommissionFor(market); c < min {
		return min
	}
	return c
}

// basePrice converts a quote's current price to KRW using the exchange rate
// captured with that quote. Amounts derived from it are rounded to integer
// KRW at the trade level; the price itself keeps 4 decimal digits.
func basePrice(q *qentity.Quote) decimal.Decimal {
	price := decimal.NewFromFloat(q.CurrentPrice)
	if q.Currency == marketUSD && q.ExchangeRate > 0 {
		price = price.Mul(decimal.NewFromFloat(q.ExchangeRate))
	}
	return price.Round(4)
}

// tradeCost computes the integer KRW amount, commission and gross cost of a
// trade at the given price.
func tradeCost(price decimal.Decimal, quantity int64, market string) (amount, commission, cost int64) {
	amount = price.Mul(decimal.NewFromInt(quantity)).Round(0).IntPart()
	commission = commissionFor(amount, market)
	return amount, commission, amount + commission
}
