package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how long a transient transport failure is retried before the
// error is surfaced to the caller.
type Policy struct {
	MaxAttempts     uint64        `json:"max_attempts"`
	InitialInterval time.Duration `json:"initial_interval"`
	MaxInterval     time.Duration `json:"max_interval"`
}

// DefaultPolicy retries a request up to 8 times with exponential backoff
// starting at 250ms and capped at 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     8,
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Do runs op until it succeeds, the retry budget is exhausted, or ctx is
// cancelled. The last error is returned when the budget runs out.
func Do(ctx context.Context, p Policy, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0

	return backoff.Retry(
		op,
		backoff.WithContext(backoff.WithMaxRetries(b, p.MaxAttempts-1), ctx),
	)
}

// Permanent marks an error as non-retryable, e.g. an HTTP 404 on a problem
// page is a real answer rather than a transport hiccup.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
