package client

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Transfer is a fully specified native-value transfer.
type Transfer struct {
	To       common.Address
	Value    *big.Int // wei
	GasPrice *big.Int // wei
	GasLimit uint64
	ChainID  *big.Int // nil: ask the node
}

// SendTransfer signs t with key and broadcasts it.
func SendTransfer(ctx context.Context, ledger Ledger, key *ecdsa.PrivateKey, t Transfer) (*types.Transaction, error) {
	from := ethcrypto.PubkeyToAddress(key.PublicKey)

	nonce, err := ledger.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	chainID := t.ChainID
	if chainID == nil || chainID.Sign() == 0 {
		chainID, err = ledger.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &t.To,
		Value:    t.Value,
		Gas:      t.GasLimit,
		GasPrice: t.GasPrice,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := ledger.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}
	return signed, nil
}
