package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

// PriceClient fetches the native/fiat exchange rate from an HTTP feed.
type PriceClient struct {
	client *http.Client
}

// NewPriceClient creates a new price feed client
func NewPriceClient() *PriceClient {
	return &PriceClient{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchPrice issues GET url and extracts the price.
// Accepted bodies: {"price": 2.5}, {"price": "2.5"} and the CoinGecko
// simple/price shape {"ethereum": {"usd": 2.5}}.
func (c *PriceClient) FetchPrice(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to get price: status %d", resp.StatusCode)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode price: %w", err)
	}

	price, err := extractPrice(body)
	if err != nil {
		return 0, err
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("invalid price %v", price)
	}
	return price, nil
}

func extractPrice(body map[string]json.RawMessage) (float64, error) {
	if raw, ok := body["price"]; ok {
		return parseNumber(raw)
	}

	if len(body) == 1 {
		for _, raw := range body {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(raw, &nested); err != nil || len(nested) != 1 {
				break
			}
			for _, v := range nested {
				return parseNumber(v)
			}
		}
	}
	return 0, errors.New("price field not found")
}

func parseNumber(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("price is not a number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("price is not a number: %w", err)
	}
	return f, nil
}
