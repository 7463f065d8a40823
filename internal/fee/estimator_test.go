package fee

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/client/clienttest"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"

type fixedPrice struct {
	price float64
	calls int
}

func (f *fixedPrice) PriceFor(ctx context.Context, b *network.Binding) float64 {
	f.calls++
	return f.price
}

func newEstimator(t *testing.T, price float64) (*Estimator, *clienttest.Ledger, *fixedPrice) {
	t.Helper()
	ledger := clienttest.New("mainnet")
	nc, err := network.New(context.Background(),
		[]model.NetworkProfile{{ID: "mainnet", RPCEndpoint: "rpc"}},
		"mainnet",
		func(context.Context, model.NetworkProfile) (client.Ledger, error) { return ledger, nil },
		nil)
	require.NoError(t, err)

	prices := &fixedPrice{price: price}
	return NewEstimator(nc, prices, nil), ledger, prices
}

func TestEstimateDefaultsFiat(t *testing.T) {
	e, ledger, _ := newEstimator(t, 2.5)
	ledger.GasPrice = big.NewInt(12_500_000_000)
	ledger.Gas = 21000

	d, err := e.EstimateDefaults(context.Background(), common.Address{}, model.TransferRequest{
		Recipient:       recipient,
		Amount:          "5",
		DisplayCurrency: model.CurrencyFiat,
	})
	require.NoError(t, err)
	assert.Equal(t, "2", d.NativeAmount.String())
	assert.Equal(t, "12.5", d.GasPrice)
	assert.Equal(t, "21000", d.GasLimit)
	assert.Equal(t, "0.0002625", ComputeFee(d.GasPrice, d.GasLimit))
}

func TestEstimateDefaultsNativeSkipsPrice(t *testing.T) {
	e, _, prices := newEstimator(t, 0)

	d, err := e.EstimateDefaults(context.Background(), common.Address{}, model.TransferRequest{
		Recipient:       recipient,
		Amount:          "0.25",
		DisplayCurrency: model.CurrencyNative,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.25", d.NativeAmount.String())
	assert.Zero(t, prices.calls)
}

func TestEstimateDefaultsValidationBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		req  model.TransferRequest
	}{
		{"empty recipient", model.TransferRequest{Recipient: "", Amount: "1"}},
		{"empty amount", model.TransferRequest{Recipient: recipient, Amount: ""}},
		{"bad recipient", model.TransferRequest{Recipient: "0x1234", Amount: "1"}},
		{"bad amount", model.TransferRequest{Recipient: recipient, Amount: "one"}},
		{"negative amount", model.TransferRequest{Recipient: recipient, Amount: "-1"}},
		{"bad currency", model.TransferRequest{Recipient: recipient, Amount: "1", DisplayCurrency: "btc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ledger, prices := newEstimator(t, 2.5)
			_, err := e.EstimateDefaults(context.Background(), common.Address{}, tt.req)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Zero(t, ledger.Calls())
			assert.Zero(t, prices.calls)
		})
	}
}

func TestEstimateDefaultsPriceUnavailable(t *testing.T) {
	e, ledger, _ := newEstimator(t, 0)

	_, err := e.EstimateDefaults(context.Background(), common.Address{}, model.TransferRequest{
		Recipient: recipient,
		Amount:    "5",
	})
	assert.ErrorIs(t, err, model.ErrPriceUnavailable)
	assert.Zero(t, ledger.Calls())
}

func TestEstimateDefaultsNetworkErrors(t *testing.T) {
	req := model.TransferRequest{Recipient: recipient, Amount: "1", DisplayCurrency: model.CurrencyNative}

	e, ledger, _ := newEstimator(t, 1)
	ledger.Err = errors.New("dial tcp: connection refused")
	_, err := e.EstimateDefaults(context.Background(), common.Address{}, req)
	assert.ErrorIs(t, err, model.ErrNetwork)

	e, ledger, _ = newEstimator(t, 1)
	ledger.GasErr = errors.New("execution reverted")
	_, err = e.EstimateDefaults(context.Background(), common.Address{}, req)
	assert.ErrorIs(t, err, model.ErrNetwork)
}
