package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	walletcommon "github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/fee"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/monitor"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/price"
	"github.com/AlexZinkM/evm-wallet/internal/txlife"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// plan is a checked transfer bound to the network it was quoted on.
type plan struct {
	quote    model.Quote
	binding  *network.Binding
	to       common.Address
	value    *big.Int
	gasPrice *big.Int
	gasLimit uint64
}

// Quote validates req, fills in network defaults for unset gas fields and
// checks that amount + fee is covered by the balance. Nothing is sent.
func (s *Service) Quote(ctx context.Context, req model.TransferRequest) (*model.Quote, error) {
	from, err := s.Address(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.plan(ctx, from, req)
	if err != nil {
		return nil, err
	}
	return &p.quote, nil
}

func (s *Service) plan(ctx context.Context, from common.Address, req model.TransferRequest) (*plan, error) {
	req.Recipient = strings.TrimSpace(req.Recipient)
	req.Amount = strings.TrimSpace(req.Amount)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := s.network.Current()

	var rate float64
	if req.Currency() == model.CurrencyFiat {
		rate = s.prices.PriceFor(ctx, b)
	}
	amount, err := fee.NativeAmount(req, rate)
	if err != nil {
		return nil, err
	}

	gasPrice, gasLimit := req.GasPrice, req.GasLimit
	if gasPrice == "" || gasLimit == "" {
		d, err := s.fees.EstimateDefaults(ctx, from, req)
		if err != nil {
			return nil, err
		}
		if d.Epoch != b.Epoch {
			return nil, fmt.Errorf("%w: network switched during estimate", model.ErrNetwork)
		}
		if gasPrice == "" {
			gasPrice = d.GasPrice
		}
		if gasLimit == "" {
			gasLimit = d.GasLimit
		}
	}

	gpWei, ok := fee.ParseGasPrice(gasPrice)
	if !ok {
		return nil, fmt.Errorf("%w: invalid gas price", model.ErrValidation)
	}
	gl, ok := fee.ParseGasLimit(gasLimit)
	if !ok {
		return nil, fmt.Errorf("%w: invalid gas limit", model.ErrValidation)
	}
	feeNative, err := walletcommon.ParseAmount(fee.ComputeFee(gasPrice, gasLimit))
	if err != nil {
		return nil, err
	}

	balanceWei, err := s.refreshBalance(ctx, b, from)
	if err != nil {
		return nil, err
	}
	balance := walletcommon.WeiToEther(balanceWei)

	if err := fee.CheckFunds(amount, feeNative, balance); err != nil {
		return nil, err
	}

	q := model.Quote{
		Recipient:    common.HexToAddress(req.Recipient).Hex(),
		NativeAmount: amount.String(),
		GasPrice:     gasPrice,
		GasLimit:     gasLimit,
		Fee:          feeNative.String(),
		Total:        amount.Add(feeNative).String(),
		Balance:      balance.String(),
		MaxSendable:  fee.MaxSendable(balance, feeNative).String(),
	}
	if rate == 0 {
		rate = s.prices.PriceFor(ctx, b)
	}
	if price.Available(rate) {
		fiat, _ := fee.ToFiat(amount, rate)
		q.FiatAmount = fiat.StringFixed(2)
	}

	return &plan{
		quote:    q,
		binding:  b,
		to:       common.HexToAddress(req.Recipient),
		value:    walletcommon.EtherToWei(amount),
		gasPrice: gpWei,
		gasLimit: gl,
	}, nil
}

// Send quotes req and, if it passes every check, starts the transfer in the
// background. Progress is read through Transfer. Errors returned here mean
// nothing was sent.
func (s *Service) Send(ctx context.Context, req model.TransferRequest) (*model.Quote, error) {
	session, err := s.vault.Session()
	if err != nil {
		return nil, err
	}
	if s.transfer.Running() {
		return nil, model.ErrTransferInFlight
	}

	p, err := s.plan(ctx, session.Address(), req)
	if err != nil {
		return nil, err
	}

	key, err := session.PrivateKey()
	if err != nil {
		return nil, err
	}

	b := p.binding
	var chainID *big.Int
	if b.Profile.ChainID > 0 {
		chainID = big.NewInt(b.Profile.ChainID)
	}

	submit := func(ctx context.Context) (txlife.Handle, error) {
		tx, err := client.SendTransfer(ctx, b.Ledger, key, client.Transfer{
			To:       p.to,
			Value:    p.value,
			GasPrice: p.gasPrice,
			GasLimit: p.gasLimit,
			ChainID:  chainID,
		})
		if err != nil {
			return nil, err
		}
		return client.NewHandle(b.Ledger, tx, s.receiptPoll), nil
	}

	s.mu.Lock()
	s.sentAt = time.Now()
	s.sentOn = b.Profile.ID
	s.mu.Unlock()

	if err := s.transfer.Start(ctx, submit); err != nil {
		return nil, err
	}
	s.vault.Touch()

	s.log.Info("transfer started",
		zap.String("network", b.Profile.ID),
		zap.String("to", p.quote.Recipient),
		zap.String("amount", p.quote.NativeAmount),
		zap.String("fee", p.quote.Fee))
	return &p.quote, nil
}

// Transfer returns the state of the last transfer.
func (s *Service) Transfer() *model.StatusResponse {
	r := s.transfer.Snapshot()
	return &model.StatusResponse{
		Receipt: r,
		TxURL:   s.TxURL(r.Hash),
	}
}

// WaitTransfer blocks until the current transfer reaches its terminal stage.
func (s *Service) WaitTransfer(ctx context.Context) (*model.StatusResponse, error) {
	select {
	case <-s.transfer.Done():
		return s.Transfer(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DismissTransfer clears a finished transfer so the next one starts from stage 0.
func (s *Service) DismissTransfer() *model.StatusResponse {
	s.transfer.Reset()
	return s.Transfer()
}

func (s *Service) observeTransfer(r model.TransferReceipt) {
	if r.Stage != model.StageTerminal {
		return
	}

	s.mu.Lock()
	took := time.Since(s.sentAt)
	profile := s.sentOn
	s.mu.Unlock()

	outcome := "failed"
	switch {
	case r.Success:
		outcome = "success"
	case r.Error == model.ErrTransactionReverted.Error():
		outcome = "reverted"
	}
	monitor.Wallet.Transfer(profile, outcome, took)

	// the balance changed
	s.balances.Invalidate()
	s.history.Invalidate()
}
