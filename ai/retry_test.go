package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first attempt", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("rate limit exceeded")
			}
			return nil
		}, 3, time.Millisecond, IsTransient)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("503 service unavailable")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return wantErr
		}, 3, time.Millisecond, IsTransient)
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("401 unauthorized")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return wantErr
		}, 3, time.Millisecond, IsTransient)
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond, nil)
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := RetryWithBackoff(cancelled, func() error {
			calls++
			return errors.New("timeout")
		}, 3, time.Millisecond, nil)
		assert.Equal(t, context.Canceled, err)
		assert.Equal(t, 0, calls)
	})
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o wait" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

var _ net.Error = timeoutNetError{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"net timeout", timeoutNetError{}, true},
		{"rate limit text", errors.New("API returned 429 Too Many Requests"), true},
		{"server error text", errors.New("unexpected status code: 500"), true},
		{"bad gateway", errors.New("502 Bad Gateway"), true},
		{"overloaded", errors.New("model is overloaded, please retry"), true},
		{"unauthorized", errors.New("401 unauthorized: invalid api key"), false},
		{"bad request", errors.New("400 bad request: model not found"), false},
		{"plain failure", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
