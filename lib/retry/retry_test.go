package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts uint64) Policy {
	return Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Microsecond,
		MaxInterval:     time.Microsecond,
	}
}

func TestDoEventualSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoBudgetExhausted(t *testing.T) {
	calls := 0
	sentinel := errors.New("endpoint down")
	err := Do(context.Background(), fastPolicy(4), func() error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 4, calls)
}

func TestDoPermanent(t *testing.T) {
	calls := 0
	sentinel := errors.New("not found")
	err := Do(context.Background(), fastPolicy(8), func() error {
		calls++
		return Permanent(sentinel)
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, DefaultPolicy(), func() error {
		return errors.New("still failing")
	})
	require.Error(t, err)
}
