package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/client/clienttest"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/storage"
	"github.com/AlexZinkM/evm-wallet/internal/vault"
	"github.com/AlexZinkM/evm-wallet/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress   = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	testRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

type staticFeed float64

func (f staticFeed) FetchPrice(context.Context, string) (float64, error) { return float64(f), nil }

type noHistory struct{}

func (noHistory) FetchHistory(context.Context, string, string) ([]model.HistoryEntry, error) {
	return nil, errors.New("unreachable")
}

func newTestMux(t *testing.T) (*http.ServeMux, *clienttest.Ledger) {
	t.Helper()

	ledger := clienttest.New("mainnet")
	ledger.SetBalance(common.HexToAddress(testAddress), new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)))

	nc, err := network.New(context.Background(),
		[]model.NetworkProfile{
			{ID: "mainnet", RPCEndpoint: "rpc", ExplorerURL: "https://scan.example", PriceURL: "price"},
			{ID: "testnet", RPCEndpoint: "rpc-test"},
		},
		"mainnet",
		func(ctx context.Context, p model.NetworkProfile) (client.Ledger, error) {
			if p.ID == "mainnet" {
				return ledger, nil
			}
			return clienttest.New(p.ID), nil
		}, nil)
	require.NoError(t, err)

	svc := wallet.New(wallet.Config{
		Vault:        vault.New(storage.NewMemoryStore(), vault.WithParams(crypto.Params{N: 1 << 10, R: 8, P: 1})),
		Network:      nc,
		PriceFeed:    staticFeed(2.5),
		Explorer:     noHistory{},
		PollInterval: time.Hour,
		ReceiptPoll:  time.Millisecond,
	})
	t.Cleanup(svc.Close)

	h := NewWalletHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet/create", h.Create)
	mux.HandleFunc("/wallet/import", h.Import)
	mux.HandleFunc("/wallet/unlock", h.Unlock)
	mux.HandleFunc("/wallet/lock", h.Lock)
	mux.HandleFunc("/wallet/reset", h.Reset)
	mux.HandleFunc("/wallet/export", h.Export)
	mux.HandleFunc("/wallet/backup", h.Backup)
	mux.HandleFunc("/wallet/restore", h.Restore)
	mux.HandleFunc("/wallet/balance", h.GetBalance)
	mux.HandleFunc("/wallet/receive", h.Receive)
	mux.HandleFunc("/wallet/history", h.History)
	mux.HandleFunc("/network", h.Network)
	mux.HandleFunc("/transfer/quote", h.Quote)
	mux.HandleFunc("/transfer/send", h.Send)
	mux.HandleFunc("/transfer/status", h.Status)
	mux.HandleFunc("/transfer/dismiss", h.Dismiss)
	return mux, ledger
}

func do(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func importWallet(t *testing.T, mux http.Handler) {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/wallet/import", model.ImportRequest{Secret: testSecret, Password: "pw-correct"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/wallet/create"},
		{http.MethodGet, "/wallet/unlock"},
		{http.MethodPost, "/wallet/balance"},
		{http.MethodDelete, "/network"},
		{http.MethodGet, "/transfer/send"},
		{http.MethodPost, "/transfer/status"},
	}
	for _, tt := range tests {
		rec := do(t, mux, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestWalletFlow(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "pw-correct"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_WALLET", decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, mux, http.MethodPost, "/wallet/create", model.PasswordRequest{Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	importWallet(t, mux)

	rec = do(t, mux, http.MethodPost, "/wallet/create", model.PasswordRequest{Password: "pw-correct"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, mux, http.MethodPost, "/wallet/lock", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "pw-wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH", decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, mux, http.MethodPost, "/wallet/unlock", model.PasswordRequest{Password: "pw-correct"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.WalletResponse](t, rec)
	assert.Equal(t, testAddress, resp.Address)
	require.NotNil(t, resp.Session)

	rec = do(t, mux, http.MethodPost, "/wallet/export", model.PasswordRequest{Password: "pw-correct"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSecret, decodeBody[model.ExportResponse](t, rec).Secret)

	rec = do(t, mux, http.MethodGet, "/wallet/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	backup := rec.Body.String()

	rec = do(t, mux, http.MethodPost, "/wallet/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodPost, "/wallet/restore", backup)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testAddress, decodeBody[model.WalletResponse](t, rec).Address)
}

func TestBadJSONIsValidationError(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/wallet/import", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", decodeBody[model.ErrorResponse](t, rec).Code)
}

func TestBalanceAndReceive(t *testing.T) {
	mux, _ := newTestMux(t)
	importWallet(t, mux)

	rec := do(t, mux, http.MethodGet, "/wallet/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	b := decodeBody[model.BalanceResponse](t, rec)
	assert.Equal(t, "10", b.Native)
	assert.Equal(t, "25.00", b.Fiat)

	rec = do(t, mux, http.MethodGet, "/wallet/receive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody[model.ReceiveResponse](t, rec).QR)

	rec = do(t, mux, http.MethodGet, "/wallet/history", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNetworkEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/network", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	n := decodeBody[model.NetworkResponse](t, rec)
	assert.Equal(t, "mainnet", n.Active.ID)
	assert.Len(t, n.Profiles, 2)

	rec = do(t, mux, http.MethodPost, "/network", model.SwitchNetworkRequest{ID: "testnet"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "testnet", decodeBody[model.NetworkResponse](t, rec).Active.ID)

	rec = do(t, mux, http.MethodPost, "/network", model.SwitchNetworkRequest{ID: "moon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferEndpoints(t *testing.T) {
	mux, ledger := newTestMux(t)
	importWallet(t, mux)

	rec := do(t, mux, http.MethodPost, "/transfer/quote", model.TransferRequest{Recipient: "", Amount: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/transfer/quote", model.TransferRequest{Recipient: testRecipient, Amount: "5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2", decodeBody[model.Quote](t, rec).NativeAmount)

	rec = do(t, mux, http.MethodPost, "/transfer/send", model.TransferRequest{
		Recipient: testRecipient, Amount: "8", DisplayCurrency: model.CurrencyNative,
		GasPrice: "1000000", GasLimit: "3000",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, mux, http.MethodPost, "/transfer/send", model.TransferRequest{
		Recipient: testRecipient, Amount: "1", DisplayCurrency: model.CurrencyNative,
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var status model.StatusResponse
	require.Eventually(t, func() bool {
		rec := do(t, mux, http.MethodGet, "/transfer/status", nil)
		status = decodeBody[model.StatusResponse](t, rec)
		return status.Receipt.Stage == model.StageTerminal
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, status.Receipt.Success)
	assert.Equal(t, fmt.Sprintf("https://scan.example/tx/%s", status.Receipt.Hash), status.TxURL)
	assert.Len(t, ledger.SentTransactions(), 1)

	rec = do(t, mux, http.MethodPost, "/transfer/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StageInitiated, decodeBody[model.StatusResponse](t, rec).Receipt.Stage)
}

func TestSendWhileLocked(t *testing.T) {
	mux, _ := newTestMux(t)
	importWallet(t, mux)
	do(t, mux, http.MethodPost, "/wallet/lock", nil)

	rec := do(t, mux, http.MethodPost, "/transfer/send", model.TransferRequest{Recipient: testRecipient, Amount: "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "LOCKED", decodeBody[model.ErrorResponse](t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", model.ErrValidation), http.StatusBadRequest},
		{model.ErrPriceUnavailable, http.StatusBadRequest},
		{model.ErrAuth, http.StatusUnauthorized},
		{model.ErrLocked, http.StatusUnauthorized},
		{model.ErrNoCredential, http.StatusNotFound},
		{model.ErrCredentialExists, http.StatusConflict},
		{model.ErrTransferInFlight, http.StatusConflict},
		{model.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: down", model.ErrNetwork), http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
