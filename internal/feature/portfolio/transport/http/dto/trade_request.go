package dto

// TradeRequest is the body for POST /portfolio/buy and POST /portfolio/sell.
type TradeRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}
