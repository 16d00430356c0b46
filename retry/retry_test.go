package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/intlphone/retry"
)

var fast = retry.Policy{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxElapsed:      time.Second,
	MaxTries:        4,
}

func TestPermanentNilReturnsNil(t *testing.T) {
	assert.NoError(t, retry.Permanent(nil))
}

func TestPermanentIdempotent(t *testing.T) {
	base := errors.New("invalid")
	first := retry.Permanent(base)
	second := retry.Permanent(first)

	assert.Equal(t, first, second)
	assert.True(t, retry.IsPermanent(second))
	assert.ErrorIs(t, second, base)
}

func TestPermanentErrorZeroValue(t *testing.T) {
	var pe retry.PermanentError
	assert.Equal(t, "permanent error", pe.Error())
	assert.Nil(t, pe.Unwrap())
}

func TestIsPermanent_BackoffMarker(t *testing.T) {
	assert.True(t, retry.IsPermanent(backoff.Permanent(errors.New("x"))))
	assert.False(t, retry.IsPermanent(errors.New("x")))
	assert.False(t, retry.IsPermanent(nil))
}

func TestFetch_SuccessFirstTry(t *testing.T) {
	calls := 0
	got, err := retry.Fetch(context.Background(), fast, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestFetch_RetriesTransient(t *testing.T) {
	calls := 0
	got, err := retry.Fetch(context.Background(), fast, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("temporary")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestFetch_StopsAfterMaxTries(t *testing.T) {
	calls := 0
	_, err := retry.Fetch(context.Background(), fast, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, int(fast.MaxTries), calls)
}

func TestFetch_PermanentStopsImmediately(t *testing.T) {
	base := errors.New("not found")
	calls := 0
	_, err := retry.Fetch(context.Background(), fast, func(context.Context) (int, error) {
		calls++
		return 0, retry.Permanent(base)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Same(t, base, err)
}

func TestFetch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retry.Fetch(ctx, fast, func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDo(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fast, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("once")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
