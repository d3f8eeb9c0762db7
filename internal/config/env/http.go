package env

import (
	"net"
	"time"

	"slot_backend/internal/config"
)

type httpConfig struct {
	Host    string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port    string        `env:"HTTP_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	var cfg httpConfig
	if err := parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.Host, cfg.Port)
}

func (cfg *httpConfig) ShutdownTimeout() time.Duration {
	return cfg.Timeout
}
