package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required ETH_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing ETH_RPC_URL environment variable")

// ErrInvalidParallelism is returned when QUOTE_PARALLELISM is below one.
var ErrInvalidParallelism = errors.New("QUOTE_PARALLELISM must be at least 1")
