package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/cache"
	"github.com/AlexZinkM/evm-wallet/internal/fee"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/monitor"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/poller"
	"github.com/AlexZinkM/evm-wallet/internal/price"
	"github.com/AlexZinkM/evm-wallet/internal/txlife"
	"github.com/AlexZinkM/evm-wallet/internal/vault"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// HistorySource is satisfied by *client.ExplorerClient.
type HistorySource interface {
	FetchHistory(ctx context.Context, baseURL, address string) ([]model.HistoryEntry, error)
}

// Config wires a Service. Vault, Network, PriceFeed and Explorer are required.
type Config struct {
	Vault     *vault.Vault
	Network   *network.Context
	PriceFeed price.Feed
	Explorer  HistorySource

	PriceTTL       time.Duration
	HistoryTTL     time.Duration
	PollInterval   time.Duration
	Confirmations  uint64
	ConfirmTimeout time.Duration
	ReceiptPoll    time.Duration

	Clock  cache.Clock
	Logger *zap.Logger
}

// Service ties the vault, network, price, fee and transfer components together.
type Service struct {
	vault    *vault.Vault
	network  *network.Context
	prices   *price.Oracle
	fees     *fee.Estimator
	transfer *txlife.Lifecycle
	explorer HistorySource

	balances *cache.TTL[string, *balanceEntry]
	history  *cache.TTL[string, []model.HistoryEntry]

	pollInterval time.Duration
	receiptPoll  time.Duration
	log          *zap.Logger

	mu      sync.Mutex
	pollers *poller.Group
	sentAt  time.Time
	sentOn  string
}

func New(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.HistoryTTL <= 0 {
		cfg.HistoryTTL = 120 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}

	s := &Service{
		vault:        cfg.Vault,
		network:      cfg.Network,
		explorer:     cfg.Explorer,
		prices:       price.New(cfg.Network, cfg.PriceFeed, cfg.PriceTTL, cfg.Clock, cfg.Logger.Named("price")),
		balances:     cache.New[string, *balanceEntry](64, cfg.PollInterval, cfg.Clock),
		history:      cache.New[string, []model.HistoryEntry](64, cfg.HistoryTTL, cfg.Clock),
		pollInterval: cfg.PollInterval,
		receiptPoll:  cfg.ReceiptPoll,
		log:          cfg.Logger,
	}
	s.fees = fee.NewEstimator(cfg.Network, s.prices, cfg.Logger.Named("fee"))
	s.transfer = txlife.New(
		txlife.WithConfirmations(cfg.Confirmations),
		txlife.WithWaitTimeout(cfg.ConfirmTimeout),
		txlife.WithLogger(cfg.Logger.Named("transfer")),
		txlife.WithObserver(s.observeTransfer),
	)

	s.vault.OnLock(s.stopPollers)
	s.network.OnSwitch(s.onSwitch)
	return s
}

// Close stops background work and the active ledger connection.
func (s *Service) Close() {
	s.stopPollers()
	s.network.Close()
}

// Create generates a new wallet and unlocks it.
func (s *Service) Create(ctx context.Context, password []byte) (*model.WalletResponse, error) {
	if err := vault.ValidatePassword(password); err != nil {
		return nil, err
	}
	cred, session, err := s.vault.Create(ctx, password)
	if err != nil {
		return nil, err
	}
	s.startPollers(session)
	return walletResponse("Wallet created successfully", cred.Address, session), nil
}

// Import stores secretText encrypted with password and unlocks it.
func (s *Service) Import(ctx context.Context, secretText string, password []byte) (*model.WalletResponse, error) {
	if err := vault.ValidatePassword(password); err != nil {
		return nil, err
	}
	cred, session, err := s.vault.Import(ctx, secretText, password)
	if err != nil {
		return nil, err
	}
	s.startPollers(session)
	return walletResponse("Wallet imported successfully", cred.Address, session), nil
}

func (s *Service) Unlock(ctx context.Context, password []byte) (*model.WalletResponse, error) {
	session, err := s.vault.Unlock(ctx, password)
	if err != nil {
		return nil, err
	}
	s.startPollers(session)
	return walletResponse("Wallet unlocked", session.Address().Hex(), session), nil
}

// Lock ends the session. A broadcast transfer keeps being tracked.
func (s *Service) Lock() {
	s.vault.Lock()
}

// Reset erases the wallet and dismisses the last transfer.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.vault.Reset(ctx); err != nil {
		return err
	}
	s.transfer.Reset()
	s.balances.Invalidate()
	s.history.Invalidate()
	return nil
}

func (s *Service) ExportSecret(ctx context.Context, password []byte) (*model.ExportResponse, error) {
	secret, err := s.vault.ExportSecret(ctx, password)
	if err != nil {
		return nil, err
	}
	cred, err := s.vault.Credential(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ExportResponse{Address: cred.Address, Secret: secret}, nil
}

// Backup returns the encrypted credential blob.
func (s *Service) Backup(ctx context.Context) ([]byte, error) {
	return s.vault.ExportCredential(ctx)
}

// Restore installs a credential blob produced by Backup. The wallet stays locked.
func (s *Service) Restore(ctx context.Context, blob []byte) (*model.WalletResponse, error) {
	cred, err := s.vault.ImportCredential(ctx, blob)
	if err != nil {
		return nil, err
	}
	return walletResponse("Wallet restored, unlock to use it", cred.Address, nil), nil
}

func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	if err := vault.ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.vault.ChangePassword(ctx, oldPassword, newPassword)
}

// Address is the wallet's address. It does not require an unlocked session.
func (s *Service) Address(ctx context.Context) (common.Address, error) {
	if session, err := s.vault.Session(); err == nil {
		return session.Address(), nil
	}
	cred, err := s.vault.Credential(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(cred.Address), nil
}

// Networks lists the configured profiles and the active one.
func (s *Service) Networks() *model.NetworkResponse {
	return &model.NetworkResponse{
		Active:   s.network.Active(),
		Profiles: s.network.Profiles(),
	}
}

// SwitchNetwork activates profile id. It is refused while a transfer is in
// flight because its confirmation wait holds the current connection.
func (s *Service) SwitchNetwork(ctx context.Context, id string) (*model.NetworkResponse, error) {
	if s.transfer.Running() {
		return nil, fmt.Errorf("%w: wait for the transfer to finish", model.ErrTransferInFlight)
	}
	if err := s.network.SwitchTo(ctx, id); err != nil {
		return nil, err
	}
	return s.Networks(), nil
}

func (s *Service) onSwitch(b *network.Binding) {
	s.balances.Invalidate()
	s.history.Invalidate()
	monitor.Wallet.NetworkSwitch(b.Profile.ID)

	if session, err := s.vault.Session(); err == nil {
		s.startPollers(session)
	}
}

func walletResponse(msg, address string, session *vault.Session) *model.WalletResponse {
	resp := &model.WalletResponse{
		Success: true,
		Message: msg,
		Address: address,
	}
	if session != nil {
		info := session.Info()
		resp.Session = &info
	}
	return resp
}
