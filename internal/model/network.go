package model

// NetworkProfile is one selectable ledger network.
type NetworkProfile struct {
	ID          string `json:"id" mapstructure:"id"`
	RPCEndpoint string `json:"rpcEndpoint" mapstructure:"rpc_endpoint"`
	ExplorerURL string `json:"explorerUrl" mapstructure:"explorer_url"`
	PriceURL    string `json:"priceUrl,omitempty" mapstructure:"price_url"`
	HistoryURL  string `json:"historyUrl,omitempty" mapstructure:"history_url"`
	ChainID     int64  `json:"chainId,omitempty" mapstructure:"chain_id"`
}

// NetworkResponse represents response for GET /network
type NetworkResponse struct {
	Active   NetworkProfile   `json:"active"`
	Profiles []NetworkProfile `json:"profiles"`
}

// SwitchNetworkRequest represents request for POST /network
type SwitchNetworkRequest struct {
	ID string `json:"id"`
}
