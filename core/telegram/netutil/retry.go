package netutil

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ShouldRetry reports whether a network error is worth retrying.
// Only transient dial and timeout failures qualify; API errors do not.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Timeout() || opErr.Op == "dial") {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return ShouldRetry(urlErr.Err)
		}
	}
	return false
}

// NewBackOff returns a jittered exponential policy bounded by retries and
// wrapped with ctx; initial is the first delay.
func NewBackOff(ctx context.Context, initial time.Duration, retries int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initial
	exp.MaxInterval = 8 * initial
	// bounded by retries and ctx instead
	exp.MaxElapsedTime = 0
	exp.Reset()
	if retries <= 0 {
		// WithMaxRetries treats zero as unlimited
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}
