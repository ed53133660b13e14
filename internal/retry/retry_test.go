package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "fake net error" }
func (fakeNetError) Timeout() bool   { return true }
func (fakeNetError) Temporary() bool { return true }

func TestTransientNilIsNotRetryable(t *testing.T) {
	assert.False(t, Transient(nil))
}

func TestTransientNetErrorIsRetryable(t *testing.T) {
	var err net.Error = fakeNetError{}
	assert.True(t, Transient(err))
}

func TestTransientOrdinaryErrorIsNotRetryable(t *testing.T) {
	assert.False(t, Transient(errors.New("plain failure")))
}

func TestDoReturnsNilWithoutRetryOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoPropagatesNonTransientErrorWithoutRetry(t *testing.T) {
	calls := 0
	sentinel := errors.New("permanent failure")
	err := Do(context.Background(), func(error) bool { return false }, func(ctx context.Context) error {
		calls++
		return sentinel
	})
	assert.Same(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesExactlyOnceOnTransientError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(error) bool { return true }, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoAbandonsRetryWhenContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	calls := 0
	err := Do(ctx, func(error) bool { return true }, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}
