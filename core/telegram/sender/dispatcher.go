package sender

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/historybot/core/logger"
	"github.com/m3rciful/historybot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
type Dispatcher struct {
	opts Options
	jobs chan job

	mu     sync.RWMutex
	closed bool

	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules run for asynchronous execution.
// The run closure must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	deadlineCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempt := 0
	flood := &floodBackOff{BackOff: netutil.NewBackOff(deadlineCtx, d.opts.RetryBackoff, d.opts.MaxRetries)}
	op := func() error {
		attempt++
		err := j.run()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		flood.hint = floodDelay(err)
		return err
	}
	notify := func(err error, delay time.Duration) {
		logger.Debug(ctx, "tg.sender", "send.retry.backoff",
			append(sendLogAttrs(j),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("err", sanitizeErrorMessage(err)),
			)...,
		)
	}

	policy := backoff.WithContext(flood, deadlineCtx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		d.errs.Add(1)
		logger.Error(ctx, "tg.sender", "send.fail",
			append(sendLogAttrs(j),
				slog.String("status", "fail"),
				slog.String("err", sanitizeErrorMessage(err)),
				slog.String("err_kind", classifyError(err)),
				slog.Int("attempts", attempt),
				slog.Duration("elapsed", time.Since(start)),
			)...,
		)
		return
	}
	logger.Debug(ctx, "tg.sender", "send.success",
		append(sendLogAttrs(j),
			slog.String("status", "ok"),
			slog.Int("attempts", attempt),
			slog.Duration("elapsed", time.Since(start)),
		)...,
	)
}

func retryable(err error) bool {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return true
	}
	return netutil.ShouldRetry(err)
}

// floodBackOff stretches the next delay to the retry_after hint of the last
// flood error. The hint applies to one delay only.
type floodBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (f *floodBackOff) NextBackOff() time.Duration {
	next := f.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if f.hint > next {
		next = f.hint
	}
	f.hint = 0
	return next
}

// floodDelay returns the server-requested wait carried by a flood error.
func floodDelay(err error) time.Duration {
	var flood tele.FloodError
	if errors.As(err, &flood) && flood.RetryAfter > 0 {
		return time.Duration(flood.RetryAfter) * time.Second
	}
	return 0
}

func sendLogAttrs(j job) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return attrs
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case netutil.ShouldRetry(err):
		return "network"
	}
	status := httpStatusFromError(err)
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// sanitizeErrorMessage prevents accidental leakage of Telegram bot tokens in logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

func httpStatusFromError(err error) int {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return http.StatusTooManyRequests
	}
	return 0
}
