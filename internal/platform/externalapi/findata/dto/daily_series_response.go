// Package dto defines the wire format of the market data API.
package dto

// DailySeriesResponse is the JSON body of a /daily request. Prices arrive as
// strings and are parsed at the client boundary.
type DailySeriesResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}
