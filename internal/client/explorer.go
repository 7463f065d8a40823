package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/model"
)

// ExplorerClient reads transfer history from the network's explorer API.
type ExplorerClient struct {
	client *http.Client
}

func NewExplorerClient() *ExplorerClient {
	return &ExplorerClient{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type historyResponse struct {
	Transactions []model.HistoryEntry `json:"transactions"`
}

// FetchHistory gets GET baseURL+address and returns its transactions.
func (c *ExplorerClient) FetchHistory(ctx context.Context, baseURL, address string) ([]model.HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get history: status %d", resp.StatusCode)
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if body.Transactions == nil {
		body.Transactions = []model.HistoryEntry{}
	}
	return body.Transactions, nil
}
