package telegram

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/m3rciful/historybot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 500 * time.Millisecond
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// Long polling holds requests open, so the client timeout must exceed the poll timeout.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := defaultClientTimeout
	if floor := pollTimeout + 10*time.Second; timeout < floor {
		timeout = floor
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: defaultRetryAttempts,
			initial:    defaultRetryBackoff,
		},
	}
}

var errBodyNotReplayable = errors.New("telegram: request body cannot be replayed")

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	initial    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	attempt := 0
	op := func() (*http.Response, error) {
		attempt++
		curr := req
		if attempt > 1 {
			if req.Body != nil && req.GetBody == nil {
				return nil, backoff.Permanent(errBodyNotReplayable)
			}
			curr = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, backoff.Permanent(err)
				}
				curr.Body = body
			}
		}
		resp, err := base.RoundTrip(curr)
		if err != nil && !netutil.ShouldRetry(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	policy := netutil.NewBackOff(req.Context(), t.initial, t.maxRetries)
	return backoff.RetryWithData(op, policy)
}
