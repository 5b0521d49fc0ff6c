package directory

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy controls how failed directory requests are retried.
type RetryPolicy struct {
	MaxAttempts int // retries after the first attempt
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy is used when a client is built without one.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 2,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    2 * time.Second,
	Multiplier:  2,
}

// doWithRetry runs fn until it succeeds, returns a non-temporary error, or
// the policy is exhausted. The last error is returned as is.
func doWithRetry(ctx context.Context, p RetryPolicy, fn func() error) error {
	var err error
	for i := range p.MaxAttempts + 1 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		if i == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff(i)):
		}
	}
	return err
}

func retryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Temporary()
}

// backoff is BaseDelay * Multiplier^attempt, capped at MaxDelay.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
	if p.MaxDelay > 0 {
		return min(d, p.MaxDelay)
	}
	return d
}
