package dto

// MultiQuoteRequest is the body for POST /stocks/multiple.
type MultiQuoteRequest struct {
	Symbols []string `json:"symbols" binding:"required,min=1,max=50"`
}
