package eth

import (
	"context"
	"time"

	"github.com/avast/retry-go"
)

// RetryPolicy controls how chain reads are retried. It is passed in by the
// caller rather than kept as package state.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 200 * time.Millisecond}
}

func (p RetryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(fn,
		retry.Attempts(attempts),
		retry.Delay(p.Delay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}
