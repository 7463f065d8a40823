package fee

import (
	"context"
	"fmt"
	"strconv"

	walletcommon "github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource is satisfied by *price.Oracle.
type PriceSource interface {
	PriceFor(ctx context.Context, b *network.Binding) float64
}

// Defaults are the network's suggested gas settings for a draft transfer.
type Defaults struct {
	GasPrice     string // gwei
	GasLimit     string
	NativeAmount decimal.Decimal
	Price        float64
	Epoch        uint64
}

type Estimator struct {
	network *network.Context
	prices  PriceSource
	log     *zap.Logger
}

func NewEstimator(nc *network.Context, prices PriceSource, log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{network: nc, prices: prices, log: log}
}

// EstimateDefaults validates req, converts its amount to native units and asks
// the active network for a gas price and a gas estimate. Validation happens
// before any network call. Every call uses the same network binding.
func (e *Estimator) EstimateDefaults(ctx context.Context, from common.Address, req model.TransferRequest) (Defaults, error) {
	if err := req.Validate(); err != nil {
		return Defaults{}, err
	}

	b := e.network.Current()

	var price float64
	if req.Currency() == model.CurrencyFiat {
		price = e.prices.PriceFor(ctx, b)
	}
	amount, err := NativeAmount(req, price)
	if err != nil {
		return Defaults{}, err
	}

	gasPrice, err := b.Ledger.SuggestGasPrice(ctx)
	if err != nil {
		return Defaults{}, fmt.Errorf("%w: failed to get fee data: %v", model.ErrNetwork, err)
	}

	to := common.HexToAddress(req.Recipient)
	gas, err := b.Ledger.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: walletcommon.EtherToWei(amount),
	})
	if err != nil {
		return Defaults{}, fmt.Errorf("%w: failed to estimate gas: %v", model.ErrNetwork, err)
	}

	if !e.network.IsCurrent(b.Epoch) {
		return Defaults{}, fmt.Errorf("%w: network switched during estimate", model.ErrNetwork)
	}

	d := Defaults{
		GasPrice:     walletcommon.WeiToGwei(gasPrice).String(),
		GasLimit:     strconv.FormatUint(gas, 10),
		NativeAmount: amount,
		Price:        price,
		Epoch:        b.Epoch,
	}
	e.log.Debug("estimated defaults",
		zap.String("network", b.Profile.ID),
		zap.String("gasPrice", d.GasPrice),
		zap.String("gasLimit", d.GasLimit))
	return d, nil
}
