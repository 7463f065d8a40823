package wallet

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	walletcommon "github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/fee"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/price"

	"github.com/ethereum/go-ethereum/common"
	"github.com/skip2/go-qrcode"
)

type balanceEntry struct {
	wei *big.Int
}

func balanceKey(b *network.Binding, address common.Address) string {
	return b.Profile.ID + "/" + address.Hex()
}

// Balance returns the native balance and, when a price is known, its fiat value.
func (s *Service) Balance(ctx context.Context) (*model.BalanceResponse, error) {
	address, err := s.Address(ctx)
	if err != nil {
		return nil, err
	}

	b := s.network.Current()
	wei, err := s.balanceOf(ctx, b, address)
	if err != nil {
		return nil, err
	}

	native := walletcommon.WeiToEther(wei)
	resp := &model.BalanceResponse{
		Address: address.Hex(),
		Network: b.Profile.ID,
		Native:  native.String(),
	}

	p := s.prices.PriceFor(ctx, b)
	if price.Available(p) {
		fiat, _ := fee.ToFiat(native, p)
		resp.Price = strconv.FormatFloat(p, 'f', -1, 64)
		resp.Fiat = fiat.StringFixed(2)
	}
	return resp, nil
}

// balanceOf reads the cached balance or fetches it from b's ledger.
func (s *Service) balanceOf(ctx context.Context, b *network.Binding, address common.Address) (*big.Int, error) {
	if e, ok := s.balances.Get(balanceKey(b, address)); ok {
		return e.wei, nil
	}
	return s.refreshBalance(ctx, b, address)
}

// refreshBalance fetches the balance and caches it unless the network
// switched or the caller's context ended meanwhile.
func (s *Service) refreshBalance(ctx context.Context, b *network.Binding, address common.Address) (*big.Int, error) {
	gen := s.balances.Generation()
	wei, err := b.Ledger.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get balance: %v", model.ErrNetwork, err)
	}
	if ctx.Err() == nil && s.network.IsCurrent(b.Epoch) {
		s.balances.SetIf(balanceKey(b, address), &balanceEntry{wei: wei}, gen)
	}
	return wei, nil
}

// Receive returns the address and a base64 PNG QR code of it.
func (s *Service) Receive(ctx context.Context) (*model.ReceiveResponse, error) {
	address, err := s.Address(ctx)
	if err != nil {
		return nil, err
	}

	qr, err := generateQRCode(address.Hex())
	if err != nil {
		return nil, err
	}
	return &model.ReceiveResponse{Address: address.Hex(), QR: qr}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// ValidateRecipient turns a scanned or pasted string into a checksummed address.
// It accepts a bare address and the "ethereum:<address>[@chain][?...]" URI form.
func ValidateRecipient(text string) (string, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "ethereum:")
	if i := strings.IndexAny(s, "@?/"); i >= 0 {
		s = s[:i]
	}
	if !model.IsAddress(s) {
		return "", fmt.Errorf("%w: %q is not an address", model.ErrValidation, text)
	}
	return common.HexToAddress(s).Hex(), nil
}

// AddressURL links the wallet address on the active network's explorer.
func (s *Service) AddressURL(address string) string {
	return explorerLink(s.network.Active().ExplorerURL, "address", address)
}

// TxURL links a transaction hash on the active network's explorer.
func (s *Service) TxURL(hash string) string {
	return explorerLink(s.network.Active().ExplorerURL, "tx", hash)
}

func explorerLink(base, kind, id string) string {
	if base == "" || id == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + kind + "/" + id
}
