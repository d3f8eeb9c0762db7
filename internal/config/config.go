package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"slot_backend/internal/engine"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// SlotConfig - математика игры и лимиты ставок
type SlotConfig interface {
	Rules() engine.Rules
	BonusRules() engine.BonusRules
	MinBet() decimal.Decimal
	MaxBet() decimal.Decimal
	AnteFactor() decimal.Decimal
	MaxWinMultiplier() decimal.Decimal
	DefaultCurrency() string
	TargetRTP() float64
}

type HTTPConfig interface {
	Address() string
	ShutdownTimeout() time.Duration
}

type PGConfig interface {
	DSN() string
}

type RedisConfig interface {
	Enabled() bool
	Addr() string
	Password() string
	DB() int
	HistorySize() int
	HistoryTTL() time.Duration
}

type LoggerConfig interface {
	Level() string
	Development() bool
}

type StorageConfig interface {
	// Backend - postgres или memory
	Backend() string
	MemoryWalletBalance() decimal.Decimal
}
