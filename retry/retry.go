// Package retry runs an operation again when it fails with a transient
// error, backing off exponentially between attempts.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultMaxRetries = 0
	DefaultBaseWait   = time.Second
)

// Retryable is implemented by errors that know whether they are transient.
type Retryable interface {
	error
	Retryable() bool
}

type options struct {
	maxRetries int
	baseWait   time.Duration
}

// Option configures Do.
type Option func(*options)

// WithMaxRetries sets how many times a failed operation is retried. Zero
// runs the operation exactly once.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithBaseWait sets the wait before the first retry. Later waits double.
func WithBaseWait(d time.Duration) Option {
	return func(o *options) {
		o.baseWait = d
	}
}

// Do calls f until it succeeds, fails with an error that is not retryable,
// the retry budget is spent, or ctx is done. The last error is returned.
func Do(ctx context.Context, f func() error, opts ...Option) error {
	o := options{maxRetries: DefaultMaxRetries, baseWait: DefaultBaseWait}
	for _, opt := range opts {
		opt(&o)
	}

	var err error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			backoff := time.Duration(float64(o.baseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		if err = f(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
	}
	return err
}

// IsRetryable reports whether err, or an error it wraps, is transient.
func IsRetryable(err error) bool {
	var r Retryable
	return errors.As(err, &r) && r.Retryable()
}
