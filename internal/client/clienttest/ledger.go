// Package clienttest provides an in-memory client.Ledger for tests.
package clienttest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Ledger is a scriptable fake. Sent transactions are mined immediately with
// ReceiptStatus unless Pending is set. Err, when set, fails every call.
type Ledger struct {
	mu sync.Mutex

	Name          string
	Balances      map[common.Address]*big.Int
	GasPrice      *big.Int
	Gas           uint64
	Chain         *big.Int
	Head          uint64
	ReceiptStatus uint64
	Pending       bool

	Err        error
	GasErr     error
	SendErr    error
	ReceiptErr error

	Sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	nonces   map[common.Address]uint64
	calls    int
	closed   bool
}

// New returns a ledger on chain 1 with a 1 gwei gas price and a 21000 gas estimate.
func New(name string) *Ledger {
	return &Ledger{
		Name:          name,
		Balances:      map[common.Address]*big.Int{},
		GasPrice:      big.NewInt(1_000_000_000),
		Gas:           21000,
		Chain:         big.NewInt(1),
		Head:          100,
		ReceiptStatus: types.ReceiptStatusSuccessful,
		receipts:      map[common.Hash]*types.Receipt{},
		nonces:        map[common.Address]uint64{},
	}
}

func (l *Ledger) enter() error {
	l.mu.Lock()
	l.calls++
	return l.Err
}

// Calls returns how many ledger methods have been invoked.
func (l *Ledger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *Ledger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Ledger) SetBalance(addr common.Address, wei *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Balances[addr] = wei
}

// Mine records a receipt for hash at the current head.
func (l *Ledger) Mine(hash common.Hash, status uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mineLocked(hash, status)
}

func (l *Ledger) mineLocked(hash common.Hash, status uint64) {
	l.Head++
	l.receipts[hash] = &types.Receipt{
		TxHash:      hash,
		Status:      status,
		BlockNumber: new(big.Int).SetUint64(l.Head),
	}
}

// AdvanceHead adds n blocks.
func (l *Ledger) AdvanceHead(n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Head += n
}

func (l *Ledger) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if b, ok := l.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (l *Ledger) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(l.GasPrice), nil
}

func (l *Ledger) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if l.GasErr != nil {
		return 0, l.GasErr
	}
	return l.Gas, nil
}

func (l *Ledger) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return l.nonces[account], nil
}

func (l *Ledger) ChainID(ctx context.Context) (*big.Int, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(l.Chain), nil
}

func (l *Ledger) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return err
	}
	if l.SendErr != nil {
		return l.SendErr
	}

	signer := types.LatestSignerForChainID(tx.ChainId())
	if from, err := types.Sender(signer, tx); err == nil {
		l.nonces[from] = tx.Nonce() + 1
	}
	l.Sent = append(l.Sent, tx)
	if !l.Pending {
		l.mineLocked(tx.Hash(), l.ReceiptStatus)
	}
	return nil
}

func (l *Ledger) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if l.ReceiptErr != nil {
		return nil, l.ReceiptErr
	}
	r, ok := l.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (l *Ledger) BlockNumber(ctx context.Context) (uint64, error) {
	err := l.enter()
	defer l.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return l.Head, nil
}

func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// SentTransactions returns a copy of the broadcast transactions.
func (l *Ledger) SentTransactions() []*types.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*types.Transaction(nil), l.Sent...)
}
