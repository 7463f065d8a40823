package model

import (
	"errors"
	"fmt"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var (
	// ErrValidation marks malformed input: address, amount, secret shape, unknown network.
	ErrValidation = errors.New("validation error")
	// ErrAuth is returned for every unlock failure. Wrong password and corrupt
	// ciphertext are reported identically.
	ErrAuth = errors.New("invalid password")
	// ErrNetwork marks an unreachable or failing ledger RPC.
	ErrNetwork = errors.New("network error")
	// ErrInsufficientFunds means amount + fee exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds to cover amount + gas")
	// ErrTransactionReverted is recorded when a mined receipt reports failure.
	ErrTransactionReverted = errors.New("transaction reverted")

	ErrLocked           = errors.New("wallet is locked")
	ErrNoCredential     = errors.New("wallet not found")
	ErrCredentialExists = errors.New("wallet already exists")
	ErrPriceUnavailable = errors.New("price unavailable, cannot convert currency")
	ErrTransferInFlight = errors.New("transfer already in progress")

	ErrUnknownNetwork = fmt.Errorf("%w: unknown network", ErrValidation)
)

// ErrorCode maps an error onto the short code used in ErrorResponse.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrAuth):
		return "AUTH"
	case errors.Is(err, ErrLocked):
		return "LOCKED"
	case errors.Is(err, ErrNoCredential):
		return "NO_WALLET"
	case errors.Is(err, ErrCredentialExists):
		return "WALLET_EXISTS"
	case errors.Is(err, ErrPriceUnavailable):
		return "PRICE_UNAVAILABLE"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, ErrTransferInFlight):
		return "IN_FLIGHT"
	case errors.Is(err, ErrNetwork):
		return "NETWORK"
	case errors.Is(err, ErrTransactionReverted):
		return "REVERTED"
	default:
		return "INTERNAL"
	}
}
