package config

import (
	"errors"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Addr != ":1337" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RetryAttempts != 3 || cfg.RetryDelay != 200*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.QuoteParallelism != 4 {
		t.Fatalf("unexpected parallelism: %d", cfg.QuoteParallelism)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")
	t.Setenv("ADDR", ":8080")
	t.Setenv("RPC_RETRY_DELAY", "1s")
	t.Setenv("QUOTE_PARALLELISM", "16")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.RetryDelay != time.Second || cfg.QuoteParallelism != 16 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_MissingRPC(t *testing.T) {
	t.Setenv("ETH_RPC_URL", "")

	if _, err := FromEnv(); !errors.Is(err, ErrMissingRPCEndpoint) {
		t.Fatalf("expected ErrMissingRPCEndpoint, got %v", err)
	}
}

func TestFromEnv_BadParallelism(t *testing.T) {
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")
	t.Setenv("QUOTE_PARALLELISM", "0")

	if _, err := FromEnv(); !errors.Is(err, ErrInvalidParallelism) {
		t.Fatalf("expected ErrInvalidParallelism, got %v", err)
	}
}
