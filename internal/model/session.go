package model

// SessionResponse represents response for GET /api/session
type SessionResponse struct {
	ID          string `json:"id"`
	Connected   bool   `json:"connected"`
	Account     string `json:"account,omitempty"`
	Balance     string `json:"balance,omitempty"` // ETH
	Network     int64  `json:"network,omitempty"` // chain id
	Loading     bool   `json:"loading"`
	Currency    string `json:"currency,omitempty"`
	Rate        string `json:"rate,omitempty"`
	BalanceFiat string `json:"balance_fiat,omitempty"` // Balance * Rate
}
