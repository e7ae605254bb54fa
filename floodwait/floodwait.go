// Package floodwait implements caller-side handling of the rate-limit
// errors classified by package rpcerr. The classifier only reports the wait
// the server announced; honoring it, retrying, and pacing future requests is
// the caller's job and lives here.
package floodwait

import (
	"context"
	"errors"
	"time"

	"github.com/vinayprograms/tgkit/rpcerr"
)

// Common errors.
var (
	ErrClosed        = errors.New("limiter closed")
	ErrWaitTooLong   = errors.New("announced wait exceeds the configured maximum")
	ErrMethodUnknown = errors.New("unknown method")
)

// Wait honors the wait duration announced by a flood error. If err is a
// flood-wait error it sleeps for the announced duration and returns nil,
// signaling that the request may be repeated. Any other error is returned
// unchanged. Cancellation of ctx aborts the sleep with ctx.Err().
func Wait(ctx context.Context, err error) error {
	d, ok := rpcerr.WaitDuration(err)
	if !ok {
		return err
	}
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryConfig holds the knobs of Retry.
type retryConfig struct {
	maxAttempts int
	maxWait     time.Duration
	backoff     time.Duration
	notify      func(err error, attempt int)
	sleep       func(ctx context.Context, d time.Duration) error // for testing
}

// RetryOption configures Retry.
type RetryOption func(*retryConfig)

// WithMaxAttempts caps the total number of attempts. Default 5.
func WithMaxAttempts(n int) RetryOption {
	return func(c *retryConfig) {
		c.maxAttempts = n
	}
}

// WithMaxWait refuses to honor announced waits longer than d; the flood
// error is returned to the caller instead. Default 1 hour.
func WithMaxWait(d time.Duration) RetryOption {
	return func(c *retryConfig) {
		c.maxWait = d
	}
}

// WithBackoff sets the delay before retrying an internal server error.
// Default 1 second, mirroring the session layer of the reference client.
func WithBackoff(d time.Duration) RetryOption {
	return func(c *retryConfig) {
		c.backoff = d
	}
}

// WithNotify installs a callback invoked before each sleep with the error
// that triggered the retry and the attempt number, starting at 1.
func WithNotify(fn func(err error, attempt int)) RetryOption {
	return func(c *retryConfig) {
		c.notify = fn
	}
}

// Retry runs op, retrying the retryable RPC failures: flood errors are
// retried after their announced wait, internal server errors after a fixed
// backoff. Every other outcome, success included, is returned immediately.
// When attempts run out the last error is returned.
func Retry(ctx context.Context, op func() error, opts ...RetryOption) error {
	cfg := &retryConfig{
		maxAttempts: 5,
		maxWait:     time.Hour,
		backoff:     time.Second,
		sleep:       sleep,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil || !rpcerr.IsRetryable(err) {
			return err
		}
		if attempt >= cfg.maxAttempts {
			return err
		}

		delay := cfg.backoff
		if d, ok := rpcerr.WaitDuration(err); ok {
			if d > cfg.maxWait {
				return errors.Join(ErrWaitTooLong, err)
			}
			delay = d
		}

		if cfg.notify != nil {
			cfg.notify(err, attempt)
		}
		if serr := cfg.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}
