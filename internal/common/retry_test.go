package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	transient := errors.New("503 from backend")
	denied := errors.New("403 from backend")
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
		wantMax   bool
	}{
		{name: "first try", wantCalls: 1},
		{name: "recovers after transient failures", failures: []error{transient, transient}, wantCalls: 3},
		{name: "permanent failure stops at once", failures: []error{Permanent(denied)}, wantCalls: 1, wantErr: denied},
		{name: "rate limit is retried", failures: []error{ErrRateLimit}, wantCalls: 2},
		{
			name:      "gives up after max attempts",
			failures:  []error{transient, transient, transient},
			wantCalls: 3,
			wantErr:   transient,
			wantMax:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), "sheets", func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, opts)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMax, errors.Is(err, ErrMaxRetries))
			if tt.wantMax {
				assert.Contains(t, err.Error(), "sheets failed 3 times")
			}
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, "sheets", func() error {
		calls++
		cancel()
		return errors.New("timeout")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
