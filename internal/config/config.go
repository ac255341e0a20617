package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":1337"`
	RPCEndpoint string `env:"ETH_RPC_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`

	RetryAttempts uint          `env:"RPC_RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay    time.Duration `env:"RPC_RETRY_DELAY" envDefault:"200ms"`

	// QuoteParallelism bounds how many target prices are planned at once.
	QuoteParallelism int `env:"QUOTE_PARALLELISM" envDefault:"4"`
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.RPCEndpoint == "" {
		return nil, ErrMissingRPCEndpoint
	}
	if cfg.QuoteParallelism < 1 {
		return nil, ErrInvalidParallelism
	}

	return &cfg, nil
}
