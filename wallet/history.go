package wallet

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// History returns the wallet's transfers from the active network's explorer API.
// Networks without a history endpoint return an empty list.
func (s *Service) History(ctx context.Context) (*model.HistoryResponse, error) {
	address, err := s.Address(ctx)
	if err != nil {
		return nil, err
	}

	b := s.network.Current()
	entries, err := s.loadHistory(ctx, b, address)
	if err != nil {
		return nil, err
	}
	return &model.HistoryResponse{
		Address:      address.Hex(),
		Network:      b.Profile.ID,
		Transactions: entries,
	}, nil
}

func (s *Service) loadHistory(ctx context.Context, b *network.Binding, address common.Address) ([]model.HistoryEntry, error) {
	if b.Profile.HistoryURL == "" {
		return []model.HistoryEntry{}, nil
	}

	key := balanceKey(b, address)
	if entries, ok := s.history.Get(key); ok {
		return entries, nil
	}

	gen := s.history.Generation()
	entries, err := s.explorer.FetchHistory(ctx, b.Profile.HistoryURL, address.Hex())
	if err != nil {
		if last, _, ok := s.history.Peek(key); ok {
			s.log.Warn("history refresh failed, serving last known", zap.Error(err))
			return last, nil
		}
		return nil, fmt.Errorf("%w: failed to get history: %v", model.ErrNetwork, err)
	}

	if ctx.Err() == nil && s.network.IsCurrent(b.Epoch) {
		s.history.SetIf(key, entries, gen)
	}
	return entries, nil
}
