package env

import (
	"time"

	"slot_backend/internal/config"
)

type redisConfig struct {
	Address  string        `env:"REDIS_ADDR"`
	Pass     string        `env:"REDIS_PASSWORD"`
	Database int           `env:"REDIS_DB" envDefault:"0"`
	Size     int           `env:"HISTORY_CACHE_SIZE" envDefault:"50"`
	TTL      time.Duration `env:"HISTORY_CACHE_TTL" envDefault:"24h"`
}

// NewRedisConfig - кэш истории включается, только если задан REDIS_ADDR
func NewRedisConfig() (config.RedisConfig, error) {
	var cfg redisConfig
	if err := parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *redisConfig) Enabled() bool { return cfg.Address != "" }
func (cfg *redisConfig) Addr() string { return cfg.Address }
func (cfg *redisConfig) Password() string { return cfg.Pass }
func (cfg *redisConfig) DB() int { return cfg.Database }
func (cfg *redisConfig) HistorySize() int { return cfg.Size }
func (cfg *redisConfig) HistoryTTL() time.Duration { return cfg.TTL }
