package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Native  string `json:"native"`
	Price   string `json:"price,omitempty"`
	Fiat    string `json:"fiat,omitempty"`
}
