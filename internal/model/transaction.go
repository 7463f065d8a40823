package model

import (
	"fmt"
	"strconv"
	"strings"

	walletcommon "github.com/AlexZinkM/evm-wallet/internal/common"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Currency is the unit the user typed the amount in.
type Currency string

const (
	CurrencyFiat   Currency = "fiat"
	CurrencyNative Currency = "native"
)

// Stage is a point in a transfer's lifecycle.
type Stage uint8

const (
	StageInitiated Stage = iota
	StageBroadcast
	StageConfirming
	StageTerminal
)

func (s Stage) String() string {
	switch s {
	case StageInitiated:
		return "initiated"
	case StageBroadcast:
		return "broadcast"
	case StageConfirming:
		return "confirming"
	case StageTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// TransferRequest is the caller's draft transfer.
// GasPrice is in gwei, GasLimit is an integer; empty means "use network defaults".
type TransferRequest struct {
	Recipient       string   `json:"recipient"`
	Amount          string   `json:"amount"`
	DisplayCurrency Currency `json:"displayCurrency"`
	GasPrice        string   `json:"gasPrice,omitempty"`
	GasLimit        string   `json:"gasLimit,omitempty"`
}

// Validate checks the draft without touching the network.
func (r *TransferRequest) Validate() error {
	if strings.TrimSpace(r.Recipient) == "" || strings.TrimSpace(r.Amount) == "" {
		return fmt.Errorf("%w: recipient and amount are required", ErrValidation)
	}
	if !IsAddress(strings.TrimSpace(r.Recipient)) {
		return fmt.Errorf("%w: invalid recipient address", ErrValidation)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil || !walletcommon.InBounds(amount) {
		return fmt.Errorf("%w: invalid amount", ErrValidation)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	switch r.DisplayCurrency {
	case "", CurrencyFiat, CurrencyNative:
	default:
		return fmt.Errorf("%w: displayCurrency must be fiat or native", ErrValidation)
	}
	if r.GasPrice != "" {
		gp, err := decimal.NewFromString(r.GasPrice)
		if err != nil || !walletcommon.InBounds(gp) || !gp.IsPositive() || !gp.Shift(9).IsInteger() {
			return fmt.Errorf("%w: invalid gas price", ErrValidation)
		}
	}
	if r.GasLimit != "" {
		if gl, err := strconv.ParseUint(r.GasLimit, 10, 64); err != nil || gl == 0 {
			return fmt.Errorf("%w: invalid gas limit", ErrValidation)
		}
	}
	return nil
}

// Currency returns the display currency, defaulting to fiat like the wallet UI does.
func (r *TransferRequest) Currency() Currency {
	if r.DisplayCurrency == "" {
		return CurrencyFiat
	}
	return r.DisplayCurrency
}

// IsAddress reports whether s has the canonical 0x-prefixed 20-byte hex shape.
func IsAddress(s string) bool {
	return len(s) == 42 && strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// TransferReceipt is the observable state of one transfer attempt.
type TransferReceipt struct {
	Hash    string `json:"hash,omitempty"`
	Stage   Stage  `json:"stage"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Quote is what the user confirms before a transfer is sent.
type Quote struct {
	Recipient    string `json:"recipient"`
	NativeAmount string `json:"nativeAmount"`
	FiatAmount   string `json:"fiatAmount,omitempty"`
	GasPrice     string `json:"gasPrice"`
	GasLimit     string `json:"gasLimit"`
	Fee          string `json:"fee"`
	Total        string `json:"total"`
	Balance      string `json:"balance"`
	MaxSendable  string `json:"maxSendable"`
}

// SendResponse represents response for POST /transfer/send
type SendResponse struct {
	Quote   Quote           `json:"quote"`
	Receipt TransferReceipt `json:"receipt"`
}

// StatusResponse represents response for GET /transfer/status
type StatusResponse struct {
	Receipt TransferReceipt `json:"receipt"`
	TxURL   string          `json:"txUrl,omitempty"`
}

// HistoryEntry is one transfer as reported by the explorer API.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Value       string `json:"value"`
	SentAt      string `json:"sent_at"`
}

// HistoryResponse represents response for GET /wallet/history
type HistoryResponse struct {
	Address      string         `json:"address"`
	Network      string         `json:"network"`
	Transactions []HistoryEntry `json:"transactions"`
}
