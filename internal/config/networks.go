package config

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/spf13/viper"
)

// DefaultNetworks is used when no NETWORKS_FILE is configured.
func DefaultNetworks() []model.NetworkProfile {
	return []model.NetworkProfile{
		{
			ID:          "mainnet",
			RPCEndpoint: "https://cloudflare-eth.com",
			ExplorerURL: "https://etherscan.io",
			PriceURL:    "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd",
			ChainID:     1,
		},
		{
			ID:          "sepolia",
			RPCEndpoint: "https://rpc.sepolia.org",
			ExplorerURL: "https://sepolia.etherscan.io",
			ChainID:     11155111,
		},
	}
}

// LoadNetworks reads network profiles from a YAML file:
//
//	networks:
//	  - id: mainnet
//	    rpc_endpoint: https://...
//	    explorer_url: https://...
//	    price_url: https://...
func LoadNetworks(path string) ([]model.NetworkProfile, error) {
	if path == "" {
		return DefaultNetworks(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}

	var profiles []model.NetworkProfile
	if err := v.UnmarshalKey("networks", &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode networks: %w", err)
	}
	if err := ValidateNetworks(profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ValidateNetworks checks that ids are unique and every profile has an endpoint.
func ValidateNetworks(profiles []model.NetworkProfile) error {
	if len(profiles) == 0 {
		return errors.New("no network profiles configured")
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.ID == "" {
			return errors.New("network profile without id")
		}
		if p.RPCEndpoint == "" {
			return fmt.Errorf("network %q has no rpc_endpoint", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate network id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
