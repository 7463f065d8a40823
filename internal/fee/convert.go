package fee

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	walletcommon "github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeFee returns gasPrice (gwei) * gasLimit in native units.
// It returns "0" when either input is empty or malformed and never panics.
func ComputeFee(gasPrice, gasLimit string) string {
	wei, ok := feeWei(gasPrice, gasLimit)
	if !ok {
		return "0"
	}
	return walletcommon.WeiToEther(wei).String()
}

func feeWei(gasPrice, gasLimit string) (*big.Int, bool) {
	gp, ok := ParseGasPrice(gasPrice)
	if !ok {
		return nil, false
	}
	gl, ok := ParseGasLimit(gasLimit)
	if !ok {
		return nil, false
	}
	return new(big.Int).Mul(gp, new(big.Int).SetUint64(gl)), true
}

// ParseGasPrice parses a gwei decimal into wei. More than 9 decimals is malformed.
func ParseGasPrice(gwei string) (*big.Int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(gwei))
	if err != nil || !walletcommon.InBounds(d) || d.IsNegative() || !d.Shift(walletcommon.GweiDecimals).IsInteger() {
		return nil, false
	}
	return walletcommon.GweiToWei(d), true
}

func ParseGasLimit(s string) (uint64, bool) {
	gl, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return gl, true
}

// ToNative converts a fiat amount at price fiat/native.
func ToNative(fiat decimal.Decimal, price float64) (decimal.Decimal, error) {
	if !usablePrice(price) {
		return decimal.Zero, model.ErrPriceUnavailable
	}
	return fiat.DivRound(decimal.NewFromFloat(price), walletcommon.EtherDecimals), nil
}

// ToFiat converts a native amount at price fiat/native.
func ToFiat(native decimal.Decimal, price float64) (decimal.Decimal, error) {
	if !usablePrice(price) {
		return decimal.Zero, model.ErrPriceUnavailable
	}
	return native.Mul(decimal.NewFromFloat(price)), nil
}

// usablePrice rejects zero, negative, NaN and infinite prices.
func usablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}

// NativeAmount returns the request's amount in native units.
func NativeAmount(req model.TransferRequest, price float64) (decimal.Decimal, error) {
	amount, err := walletcommon.ParseAmount(req.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if req.Currency() == model.CurrencyNative {
		return amount, nil
	}
	return ToNative(amount, price)
}

// CheckFunds fails with ErrInsufficientFunds when amount + fee exceeds balance.
func CheckFunds(amount, fee, balance decimal.Decimal) error {
	total := amount.Add(fee)
	if total.GreaterThan(balance) {
		return fmt.Errorf("%w: need %s, have %s", model.ErrInsufficientFunds, total, balance)
	}
	return nil
}

// MaxSendable is the largest amount that still leaves room for fee.
func MaxSendable(balance, fee decimal.Decimal) decimal.Decimal {
	left := balance.Sub(fee)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}
