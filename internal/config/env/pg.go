package env

import (
	"slot_backend/internal/config"
)

type pgConfig struct {
	Dsn string `env:"PG_DSN,required"`
}

func NewPGConfig() (config.PGConfig, error) {
	var cfg pgConfig
	if err := parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.Dsn
}
