package env

import (
	"slot_backend/internal/config"
)

type loggerConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

func NewLoggerConfig() (config.LoggerConfig, error) {
	var cfg loggerConfig
	if err := parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *loggerConfig) Level() string {
	return cfg.LogLevel
}

func (cfg *loggerConfig) Development() bool {
	return cfg.AppEnv == "development"
}
