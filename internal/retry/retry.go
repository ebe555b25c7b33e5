// Package retry wraps network-bound operations with bounded
// exponential-backoff retry. One policy serves every external boundary
// (the LLM provider and the league data provider); call sites differ
// only in the classifier that decides which failures are transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default policy values.
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultMaxDelay    = 30 * time.Second
	DefaultMultiplier  = 2.0
	DefaultJitter      = 0.25
)

// ErrExhausted is matched by errors.Is for failures where every retry
// attempt was spent without success.
var ErrExhausted = errors.New("retry attempts exhausted")

// Classifier reports whether an error is transient and worth retrying.
// Errors it rejects propagate immediately without sleeping.
type Classifier func(error) bool

// ExhaustedError wraps the final error after all attempts failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry attempts exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is matches ErrExhausted so callers can test with errors.Is.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Policy describes the backoff schedule for one logical operation.
// The zero value is not useful; start from DefaultPolicy.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// Multiplier scales the delay after each failure.
	Multiplier float64
	// Jitter is the randomization factor applied to each delay (0..1).
	Jitter float64
	// OnRetry, if set, is invoked before each sleep with the attempt
	// number just failed, the upcoming delay, and the error.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns the policy used for all external calls unless
// overridden by configuration.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Multiplier:  DefaultMultiplier,
		Jitter:      DefaultJitter,
	}
}

// Do runs op, retrying transient failures per the policy.
// Terminal errors (rejected by retryable) and context cancellation
// propagate immediately. When every attempt fails with a transient
// error, the last error is returned wrapped in an ExhaustedError.
func (p Policy) Do(ctx context.Context, op func() error, retryable Classifier) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	wrapped := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.MaxInterval = p.MaxDelay
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = p.Jitter
	exp.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	notify := func(err error, delay time.Duration) {
		slog.Warn("retrying after transient failure",
			"attempt", attempts,
			"max_attempts", maxAttempts,
			"delay", delay,
			"error", err,
		)
		if p.OnRetry != nil {
			p.OnRetry(attempts, delay, err)
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxAttempts-1)), ctx)
	err := backoff.RetryNotify(wrapped, b, notify)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}

	if retryable(err) && attempts >= maxAttempts {
		return &ExhaustedError{Attempts: attempts, Err: err}
	}

	return err
}
