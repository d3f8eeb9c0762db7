package env

import (
	"fmt"

	"github.com/shopspring/decimal"

	"slot_backend/internal/config"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type storageConfig struct {
	Kind          string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	WalletBalance string `env:"MEMORY_WALLET_BALANCE" envDefault:"1000"`

	balance decimal.Decimal
}

func NewStorageConfig() (config.StorageConfig, error) {
	var cfg storageConfig
	if err := parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.Kind != BackendPostgres && cfg.Kind != BackendMemory {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Kind)
	}

	balance, err := decimal.NewFromString(cfg.WalletBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid MEMORY_WALLET_BALANCE: %w", err)
	}
	cfg.balance = balance
	return &cfg, nil
}

func (cfg *storageConfig) Backend() string {
	return cfg.Kind
}

func (cfg *storageConfig) MemoryWalletBalance() decimal.Decimal {
	return cfg.balance
}
