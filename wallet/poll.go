package wallet

import (
	"context"

	"github.com/AlexZinkM/evm-wallet/internal/poller"
	"github.com/AlexZinkM/evm-wallet/internal/vault"

	"go.uber.org/zap"
)

// startPollers replaces the running poll group with one bound to session.
func (s *Service) startPollers(session *vault.Session) {
	g := poller.NewGroup(context.Background(), s.log.Named("poller"))

	s.mu.Lock()
	old := s.pollers
	s.pollers = g
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}

	id := session.ID()
	address := session.Address()

	// A Lock that ran before the group was stored found nothing to stop.
	if !s.vault.IsCurrent(id) {
		s.stopGroup(g)
		return
	}

	g.Go("price", s.pollInterval, func(ctx context.Context) error {
		if !s.vault.IsCurrent(id) {
			return nil
		}
		s.prices.GetPrice(ctx)
		return nil
	})
	g.Go("balance", s.pollInterval, func(ctx context.Context) error {
		if !s.vault.IsCurrent(id) {
			return nil
		}
		_, err := s.refreshBalance(ctx, s.network.Current(), address)
		return err
	})
	g.Go("history", s.pollInterval, func(ctx context.Context) error {
		if !s.vault.IsCurrent(id) {
			return nil
		}
		_, err := s.loadHistory(ctx, s.network.Current(), address)
		return err
	})

	s.log.Debug("pollers started", zap.String("session", id))
}

func (s *Service) stopPollers() {
	s.mu.Lock()
	g := s.pollers
	s.pollers = nil
	s.mu.Unlock()

	if g != nil {
		g.Stop()
	}
}

// stopGroup stops g and clears it if it is still the running group.
func (s *Service) stopGroup(g *poller.Group) {
	s.mu.Lock()
	if s.pollers == g {
		s.pollers = nil
	}
	s.mu.Unlock()
	g.Stop()
}

// polling reports whether a poll group is running. Used by tests.
func (s *Service) polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollers != nil && !s.pollers.Stopped()
}
