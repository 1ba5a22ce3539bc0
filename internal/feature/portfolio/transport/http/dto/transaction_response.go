package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse is one row of the trade history.
type TransactionResponse struct {
	ID          uint            `json:"id"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Commission  int64           `json:"commission"`
	TotalAmount int64           `json:"total_amount"`
	Market      string          `json:"market"`
	CreatedAt   time.Time       `json:"created_at"`
}
