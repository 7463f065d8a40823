package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// Passwords are never part of it: they are prompted for or sent per request.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	AppEnv         string        `envconfig:"APP_ENV" default:"development"`
	StorageBackend string        `envconfig:"STORAGE_BACKEND" default:"file"`
	StoreDir       string        `envconfig:"WALLET_STORE_DIR" default:".evm-wallet"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	NetworksFile   string        `envconfig:"NETWORKS_FILE"`
	ActiveNetwork  string        `envconfig:"ACTIVE_NETWORK" default:"mainnet"`
	PriceTTL       time.Duration `envconfig:"PRICE_TTL" default:"60s"`
	HistoryTTL     time.Duration `envconfig:"HISTORY_TTL" default:"120s"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`
	Confirmations  uint64        `envconfig:"CONFIRMATIONS" default:"1"`
	ConfirmTimeout time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"10m"`
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"15m"`
	ScryptN        int           `envconfig:"SCRYPT_N" default:"262144"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads a fresh Config from the environment without touching the global one.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.Confirmations == 0 {
		c.Confirmations = 1
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}
