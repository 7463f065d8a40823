package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/client/clienttest"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/storage"
	"github.com/AlexZinkM/evm-wallet/internal/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress   = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	testRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	testPassword  = "pw-correct"
)

var oneEther = big.NewInt(1_000_000_000_000_000_000)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), oneEther)
}

type fakeFeed struct {
	mu    sync.Mutex
	price float64
	err   error
	calls atomic.Int32
}

func (f *fakeFeed) FetchPrice(ctx context.Context, url string) (float64, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.price, f.err
}

type fakeExplorer struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
	err     error
	calls   atomic.Int32
}

func (f *fakeExplorer) FetchHistory(ctx context.Context, baseURL, address string) ([]model.HistoryEntry, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeExplorer) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type env struct {
	svc      *Service
	vault    *vault.Vault
	ledgers  map[string]*clienttest.Ledger
	feed     *fakeFeed
	explorer *fakeExplorer
}

func (e *env) main() *clienttest.Ledger { return e.ledgers["mainnet"] }

func newEnv(t *testing.T) *env {
	t.Helper()

	ledgers := map[string]*clienttest.Ledger{
		"mainnet": clienttest.New("mainnet"),
		"testnet": clienttest.New("testnet"),
	}
	profiles := []model.NetworkProfile{
		{ID: "mainnet", RPCEndpoint: "rpc-main", ExplorerURL: "https://scan.example/", PriceURL: "price", HistoryURL: "https://api.example/txs/", ChainID: 1},
		{ID: "testnet", RPCEndpoint: "rpc-test", ExplorerURL: "https://test.scan.example", ChainID: 5},
	}
	ledgers["testnet"].Chain = big.NewInt(5)
	ledgers["mainnet"].SetBalance(common.HexToAddress(testAddress), ether(10))

	nc, err := network.New(context.Background(), profiles, "mainnet",
		func(ctx context.Context, p model.NetworkProfile) (client.Ledger, error) {
			return ledgers[p.ID], nil
		}, nil)
	require.NoError(t, err)

	v := vault.New(storage.NewMemoryStore(), vault.WithParams(crypto.Params{N: 1 << 10, R: 8, P: 1}))
	e := &env{
		vault:    v,
		ledgers:  ledgers,
		feed:     &fakeFeed{price: 2.5},
		explorer: &fakeExplorer{},
	}
	e.svc = New(Config{
		Vault:        v,
		Network:      nc,
		PriceFeed:    e.feed,
		Explorer:     e.explorer,
		PollInterval: time.Hour,
		ReceiptPoll:  time.Millisecond,
	})
	t.Cleanup(e.svc.Close)
	return e
}

// Fakes must be configured before importing: the first poll runs immediately
// and caches balance, price and history.

// importLocked imports the test wallet and locks it so no pollers touch the ledger.
func (e *env) importLocked(t *testing.T) {
	t.Helper()
	_, err := e.svc.Import(context.Background(), testSecret, []byte(testPassword))
	require.NoError(t, err)
	e.svc.Lock()
}

func (e *env) importUnlocked(t *testing.T) {
	t.Helper()
	_, err := e.svc.Import(context.Background(), testSecret, []byte(testPassword))
	require.NoError(t, err)
}

func TestCreateUnlockLock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Create(ctx, []byte("short"))
	assert.ErrorIs(t, err, model.ErrValidation)

	resp, err := e.svc.Create(ctx, []byte(testPassword))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Session)
	assert.Equal(t, resp.Address, resp.Session.Address)
	assert.True(t, e.svc.polling())

	e.svc.Lock()
	assert.False(t, e.svc.polling())

	_, err = e.svc.Unlock(ctx, []byte("pw-wrong"))
	assert.ErrorIs(t, err, model.ErrAuth)

	resp, err = e.svc.Unlock(ctx, []byte(testPassword))
	require.NoError(t, err)
	assert.Equal(t, "Wallet unlocked", resp.Message)
	assert.True(t, e.svc.polling())
}

func TestPollersNotStartedForEndedSession(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)

	session, err := e.vault.Session()
	require.NoError(t, err)
	e.svc.Lock()
	require.False(t, e.svc.polling())

	fetches := e.feed.calls.Load()
	e.svc.startPollers(session)

	assert.False(t, e.svc.polling())
	assert.Equal(t, fetches, e.feed.calls.Load())
}

func TestBalance(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)

	b, err := e.svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAddress, b.Address)
	assert.Equal(t, "mainnet", b.Network)
	assert.Equal(t, "10", b.Native)
	assert.Equal(t, "2.5", b.Price)
	assert.Equal(t, "25.00", b.Fiat)
}

func TestBalanceWithoutWallet(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Balance(context.Background())
	assert.ErrorIs(t, err, model.ErrNoCredential)
}

func TestBalanceNetworkError(t *testing.T) {
	e := newEnv(t)
	e.main().Err = errors.New("connection refused")
	e.importLocked(t)

	_, err := e.svc.Balance(context.Background())
	assert.ErrorIs(t, err, model.ErrNetwork)
}

func TestQuoteConvertsFiat(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)

	q, err := e.svc.Quote(context.Background(), model.TransferRequest{
		Recipient: testRecipient,
		Amount:    "5",
	})
	require.NoError(t, err)
	assert.Equal(t, "2", q.NativeAmount)
	assert.Equal(t, "5.00", q.FiatAmount)
	assert.Equal(t, "1", q.GasPrice)
	assert.Equal(t, "21000", q.GasLimit)
	assert.Equal(t, "0.000021", q.Fee)
	assert.Equal(t, "2.000021", q.Total)
	assert.Equal(t, "9.999979", q.MaxSendable)
}

func TestQuoteInsufficientFunds(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)

	// 1,000,000 gwei * 3000 gas = 3 native
	req := model.TransferRequest{
		Recipient:       testRecipient,
		Amount:          "8",
		DisplayCurrency: model.CurrencyNative,
		GasPrice:        "1000000",
		GasLimit:        "3000",
	}
	_, err := e.svc.Quote(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)

	_, err = e.svc.Send(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Empty(t, e.main().SentTransactions())
	assert.Equal(t, model.StageInitiated, e.svc.Transfer().Receipt.Stage)
}

func TestQuoteValidationBeforeNetwork(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)
	before := e.main().Calls()
	feedBefore := e.feed.calls.Load()

	_, err := e.svc.Quote(context.Background(), model.TransferRequest{Recipient: "", Amount: "1"})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, before, e.main().Calls())
	assert.Equal(t, feedBefore, e.feed.calls.Load())
}

func TestQuotePriceUnavailable(t *testing.T) {
	e := newEnv(t)
	e.feed.err = errors.New("feed down")
	e.importLocked(t)

	_, err := e.svc.Quote(context.Background(), model.TransferRequest{Recipient: testRecipient, Amount: "5"})
	assert.ErrorIs(t, err, model.ErrPriceUnavailable)
}

func TestSendSuccess(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)

	q, err := e.svc.Send(context.Background(), model.TransferRequest{
		Recipient:       testRecipient,
		Amount:          "1",
		DisplayCurrency: model.CurrencyNative,
	})
	require.NoError(t, err)
	assert.Equal(t, "1", q.NativeAmount)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := e.svc.WaitTransfer(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.StageTerminal, status.Receipt.Stage)
	assert.True(t, status.Receipt.Success)
	assert.Empty(t, status.Receipt.Error)

	sent := e.main().SentTransactions()
	require.Len(t, sent, 1)
	assert.Equal(t, sent[0].Hash().Hex(), status.Receipt.Hash)
	assert.Equal(t, "https://scan.example/tx/"+status.Receipt.Hash, status.TxURL)
	assert.Equal(t, 0, sent[0].Value().Cmp(oneEther))
	assert.Equal(t, testRecipient, sent[0].To().Hex())
	assert.Equal(t, int64(1), sent[0].ChainId().Int64())

	dismissed := e.svc.DismissTransfer()
	assert.Equal(t, model.TransferReceipt{}, dismissed.Receipt)
	assert.Empty(t, dismissed.TxURL)
}

func TestSendReverted(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)
	e.main().ReceiptStatus = types.ReceiptStatusFailed

	_, err := e.svc.Send(context.Background(), model.TransferRequest{
		Recipient:       testRecipient,
		Amount:          "1",
		DisplayCurrency: model.CurrencyNative,
	})
	require.NoError(t, err)

	status, err := e.svc.WaitTransfer(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Receipt.Success)
	assert.Equal(t, "transaction reverted", status.Receipt.Error)
	assert.Equal(t, model.StageTerminal, status.Receipt.Stage)
}

func TestSendBroadcastFailureEndsInReceipt(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)
	e.main().SendErr = errors.New("replacement transaction underpriced")

	_, err := e.svc.Send(context.Background(), model.TransferRequest{
		Recipient:       testRecipient,
		Amount:          "1",
		DisplayCurrency: model.CurrencyNative,
	})
	require.NoError(t, err)

	status, err := e.svc.WaitTransfer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StageTerminal, status.Receipt.Stage)
	assert.Empty(t, status.Receipt.Hash)
	assert.Equal(t, "replacement transaction underpriced", status.Receipt.Error)
}

func TestSendRequiresSession(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)

	_, err := e.svc.Send(context.Background(), model.TransferRequest{Recipient: testRecipient, Amount: "1"})
	assert.ErrorIs(t, err, model.ErrLocked)
}

func TestSendInFlight(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)
	e.main().Pending = true

	req := model.TransferRequest{Recipient: testRecipient, Amount: "1", DisplayCurrency: model.CurrencyNative}
	_, err := e.svc.Send(context.Background(), req)
	require.NoError(t, err)

	_, err = e.svc.Send(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrTransferInFlight)

	_, err = e.svc.SwitchNetwork(context.Background(), "testnet")
	assert.ErrorIs(t, err, model.ErrTransferInFlight)

	require.Eventually(t, func() bool { return len(e.main().SentTransactions()) == 1 }, time.Second, time.Millisecond)
	e.main().Mine(e.main().SentTransactions()[0].Hash(), types.ReceiptStatusSuccessful)

	status, err := e.svc.WaitTransfer(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Receipt.Success)

	_, err = e.svc.SwitchNetwork(context.Background(), "testnet")
	assert.NoError(t, err)
}

func TestSwitchNetwork(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)
	e.ledgers["testnet"].SetBalance(common.HexToAddress(testAddress), ether(3))

	b, err := e.svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10", b.Native)

	resp, err := e.svc.SwitchNetwork(context.Background(), "testnet")
	require.NoError(t, err)
	assert.Equal(t, "testnet", resp.Active.ID)
	assert.True(t, e.svc.polling())

	b, err = e.svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testnet", b.Network)
	assert.Equal(t, "3", b.Native)
	assert.Empty(t, b.Price)
	assert.Empty(t, b.Fiat)

	_, err = e.svc.SwitchNetwork(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, "testnet", e.svc.Networks().Active.ID)
}

func TestHistory(t *testing.T) {
	e := newEnv(t)
	e.explorer.entries = []model.HistoryEntry{{ID: 1, FromAddress: testAddress, ToAddress: testRecipient, Value: "1"}}
	e.importLocked(t)

	h, err := e.svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.Transactions, 1)

	// cached within the TTL
	_, err = e.svc.History(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.explorer.calls.Load())

	// last known value survives a failed refresh
	e.svc.history.Invalidate()
	e.explorer.fail(errors.New("502"))
	h, err = e.svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.Transactions, 1)

	// networks without an explorer API have no history
	_, err = e.svc.SwitchNetwork(context.Background(), "testnet")
	require.NoError(t, err)
	h, err = e.svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.Transactions)
}

func TestHistoryErrorWithoutCache(t *testing.T) {
	e := newEnv(t)
	e.explorer.fail(errors.New("502"))
	e.importLocked(t)

	_, err := e.svc.History(context.Background())
	assert.ErrorIs(t, err, model.ErrNetwork)
}

func TestResetClearsWalletAndTransfer(t *testing.T) {
	e := newEnv(t)
	e.importUnlocked(t)

	_, err := e.svc.Send(context.Background(), model.TransferRequest{Recipient: testRecipient, Amount: "1", DisplayCurrency: model.CurrencyNative})
	require.NoError(t, err)
	_, err = e.svc.WaitTransfer(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.svc.Reset(context.Background()))
	assert.Equal(t, model.TransferReceipt{}, e.svc.Transfer().Receipt)
	assert.False(t, e.svc.polling())

	_, err = e.svc.Unlock(context.Background(), []byte(testPassword))
	assert.ErrorIs(t, err, model.ErrNoCredential)
}

func TestExportBackupRestore(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)
	ctx := context.Background()

	exp, err := e.svc.ExportSecret(ctx, []byte(testPassword))
	require.NoError(t, err)
	assert.Equal(t, testSecret, exp.Secret)
	assert.Equal(t, testAddress, exp.Address)

	blob, err := e.svc.Backup(ctx)
	require.NoError(t, err)

	other := newEnv(t)
	resp, err := other.svc.Restore(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, testAddress, resp.Address)
	assert.Nil(t, resp.Session)

	require.NoError(t, other.svc.ChangePassword(ctx, []byte(testPassword), []byte("another-pass")))
	_, err = other.svc.Unlock(ctx, []byte("another-pass"))
	assert.NoError(t, err)
}

func TestReceive(t *testing.T) {
	e := newEnv(t)
	e.importLocked(t)

	r, err := e.svc.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAddress, r.Address)
	assert.NotEmpty(t, r.QR)
	assert.Equal(t, "https://scan.example/address/"+testAddress, e.svc.AddressURL(r.Address))
}

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{testRecipient, testRecipient, false},
		{"  0x8ba1f109551bd432803012645ac136ddd64dba72\n", testRecipient, false},
		{"ethereum:" + testRecipient, testRecipient, false},
		{"ethereum:" + testRecipient + "@1?value=1e18", testRecipient, false},
		{"0x1234", "", true},
		{"hello", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateRecipient(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, model.ErrValidation, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
