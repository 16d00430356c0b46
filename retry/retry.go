package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy tunes Fetch. Zero fields fall back to the defaults below.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
	MaxTries        uint
}

const (
	defaultInitialInterval = 250 * time.Millisecond
	defaultMultiplier      = 2.0
	defaultMaxInterval     = 5 * time.Second
	defaultRandomization   = 0.5
	defaultMaxElapsed      = 20 * time.Second
	defaultMaxTries        = 5
)

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}

	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = defaultInitialInterval
	}
	exp.MaxInterval = p.MaxInterval
	if exp.MaxInterval <= 0 {
		exp.MaxInterval = defaultMaxInterval
	}
	exp.Multiplier = defaultMultiplier
	exp.RandomizationFactor = defaultRandomization
	exp.Reset()
	return exp
}

// Fetch calls fn until it succeeds, returns a permanent error, ctx ends, or
// the policy's attempt/elapsed budget runs out. The last error is returned
// unwrapped from its permanent marker.
func Fetch[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	maxElapsed := p.MaxElapsed
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxElapsed
	}
	maxTries := p.MaxTries
	if maxTries == 0 {
		maxTries = defaultMaxTries
	}

	op := func() (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		out, err := fn(ctx)
		if err != nil && IsPermanent(err) {
			var bpe *backoff.PermanentError
			if !errors.As(err, &bpe) {
				err = backoff.Permanent(err)
			}
		}
		return out, err
	}

	out, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithMaxTries(maxTries),
	)
	return out, unwrapPermanent(err)
}

// unwrapPermanent strips both permanent markers so callers see the error fn
// actually returned.
func unwrapPermanent(err error) error {
	var bpe *backoff.PermanentError
	if errors.As(err, &bpe) && bpe.Err != nil {
		err = bpe.Err
	}
	var pe PermanentError
	if errors.As(err, &pe) && pe.err != nil {
		err = pe.err
	}
	return err
}

// Do is Fetch for operations without a result.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Fetch(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
