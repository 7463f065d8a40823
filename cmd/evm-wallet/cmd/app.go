package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/logger"
	"github.com/AlexZinkM/evm-wallet/internal/monitor"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/storage"
	"github.com/AlexZinkM/evm-wallet/internal/vault"
	"github.com/AlexZinkM/evm-wallet/wallet"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type app struct {
	cfg     *config.Config
	svc     *wallet.Service
	cleanup func()
}

// setupApp loads configuration and wires the wallet service.
func setupApp(ctx context.Context) (*app, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	cfg := config.Get()
	if opt.network != "" {
		cfg.ActiveNetwork = opt.network
	}

	if err := logger.Init(cfg.AppEnv); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	monitor.InitWalletMetrics()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	profiles, err := config.LoadNetworks(cfg.NetworksFile)
	if err != nil {
		closeStore()
		return nil, err
	}
	nc, err := network.New(ctx, profiles, cfg.ActiveNetwork, network.EthDialer, logger.Named("network"))
	if err != nil {
		closeStore()
		return nil, err
	}

	params := crypto.DefaultParams()
	if cfg.ScryptN > 0 {
		params.N = cfg.ScryptN
	}
	v := vault.New(store,
		vault.WithParams(params),
		vault.WithIdleTimeout(cfg.SessionTimeout),
		vault.WithLogger(logger.Named("vault")),
	)

	svc := wallet.New(wallet.Config{
		Vault:          v,
		Network:        nc,
		PriceFeed:      client.NewPriceClient(),
		Explorer:       client.NewExplorerClient(),
		PriceTTL:       cfg.PriceTTL,
		HistoryTTL:     cfg.HistoryTTL,
		PollInterval:   cfg.PollInterval,
		Confirmations:  cfg.Confirmations,
		ConfirmTimeout: cfg.ConfirmTimeout,
		Logger:         logger.Named("wallet"),
	})

	return &app{
		cfg: cfg,
		svc: svc,
		cleanup: func() {
			svc.Close()
			closeStore()
			logger.Sync()
		},
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case "file", "":
		s, err := storage.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return storage.NewRedisStore(rdb, "evm-wallet:"), func() { rdb.Close() }, nil
	case "memory":
		logger.Log.Warn("using in-memory storage, the wallet is lost on exit")
		return storage.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

// withApp runs fn against a wired service and releases it afterwards.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()
	return fn(a)
}

// unlock prompts for the password and opens a session.
func (a *app) unlock(ctx context.Context) error {
	password, err := config.PromptForPassword("Wallet password")
	if err != nil {
		return err
	}
	defer clear(password)

	if _, err := a.svc.Unlock(ctx, password); err != nil {
		logger.Log.Debug("unlock failed", zap.Error(err))
		return err
	}
	return nil
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
