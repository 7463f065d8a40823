package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Ledger is the subset of the EVM JSON-RPC API the wallet uses.
// *ethclient.Client satisfies it.
type Ledger interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// DialEthereum connects to an EVM JSON-RPC endpoint.
func DialEthereum(ctx context.Context, rpcURL string) (Ledger, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return c, nil
}

const defaultReceiptPoll = 2 * time.Second

// Handle is a broadcast transaction that can be waited on.
type Handle struct {
	ledger Ledger
	tx     *types.Transaction
	poll   time.Duration
}

func NewHandle(ledger Ledger, tx *types.Transaction, poll time.Duration) *Handle {
	if poll <= 0 {
		poll = defaultReceiptPoll
	}
	return &Handle{ledger: ledger, tx: tx, poll: poll}
}

func (h *Handle) Hash() common.Hash { return h.tx.Hash() }

// Wait blocks until the transaction is mined and has the given number of
// confirmations (1 = included in a block), or ctx is done.
func (h *Handle) Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	var receipt *types.Receipt
	for {
		if receipt == nil {
			r, err := h.ledger.TransactionReceipt(ctx, h.tx.Hash())
			switch {
			case err == nil:
				receipt = r
			case errors.Is(err, ethereum.NotFound):
			default:
				return nil, err
			}
		}

		if receipt != nil {
			if confirmations == 1 {
				return receipt, nil
			}
			head, err := h.ledger.BlockNumber(ctx)
			if err != nil {
				return nil, err
			}
			if receipt.BlockNumber != nil && head >= receipt.BlockNumber.Uint64()+confirmations-1 {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
