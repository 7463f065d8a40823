package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	EtherDecimals = 18 // native unit has 18 decimals (wei)
	GweiDecimals  = 9  // gas price is entered in gwei

	// Bounds for user-entered decimals. 78 digits hold any uint256.
	maxIntegerDigits = 78
	minExponent      = -36
)

// WeiToEther converts wei to a native-unit decimal without float precision loss
func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}

// EtherToWei converts a native-unit decimal to wei. Digits beyond 18 decimals are truncated.
func EtherToWei(ether decimal.Decimal) *big.Int {
	return ether.Shift(EtherDecimals).Truncate(0).BigInt()
}

// WeiToGwei converts wei to gwei
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -GweiDecimals)
}

// GweiToWei converts gwei to wei. Digits beyond 9 decimals are truncated.
func GweiToWei(gwei decimal.Decimal) *big.Int {
	return gwei.Shift(GweiDecimals).Truncate(0).BigInt()
}

// ParseAmount parses a user-entered decimal string.
// Example: ParseAmount(" 0.5 ") = 0.5
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty string")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format: %w", err)
	}
	if !InBounds(d) {
		return decimal.Zero, fmt.Errorf("amount out of range")
	}
	return d, nil
}

// InBounds reports whether d fits in 78 integer digits and 36 decimals.
// Exponent notation like "1e30000000" is rejected before it is expanded.
func InBounds(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	return exp >= minExponent && d.NumDigits()+exp <= maxIntegerDigits
}
