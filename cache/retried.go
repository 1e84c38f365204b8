package cache

import (
	"time"

	"github.com/saltfishpr/asynccache/future"
	"github.com/saltfishpr/asynccache/retry"
)

type retryOptions struct {
	maxAttempts int
	strategy    retry.Strategy
	shouldRetry func(err error) bool
}

// RetryOption configures Retried.
type RetryOption func(*retryOptions)

// WithMaxAttempts caps the number of Get attempts, first call included.
func WithMaxAttempts(maxAttempts int) RetryOption {
	return func(opts *retryOptions) {
		opts.maxAttempts = maxAttempts
	}
}

// WithStrategy sets the backoff strategy between attempts.
func WithStrategy(strategy retry.Strategy) RetryOption {
	return func(opts *retryOptions) {
		opts.strategy = strategy
	}
}

// WithShouldRetry sets the predicate deciding whether a failure is retried.
func WithShouldRetry(fn func(err error) bool) RetryOption {
	return func(opts *retryOptions) {
		opts.shouldRetry = fn
	}
}

// Retried layers a retry policy above the wrapped Get. The pooling and
// conditioning decorators never retry on their own; this decorator is the
// opt-in place for that policy, typically wrapped around a fetcher before
// pooling so that concurrent callers share one retrying fetch.
//
// Each attempt issues a fresh Get against the wrapped Level; failures that
// exhaust the policy surface the last error. Cancellation of an attempt
// cancels the caller's Future without further attempts. Set, Clear and
// OnMemoryWarning pass straight through.
func Retried[K comparable, V any](wrapped Level[K, V], options ...RetryOption) Level[K, V] {
	opts := retryOptions{
		maxAttempts: 3,
		strategy:    retry.FixedBackoff(100 * time.Millisecond),
		shouldRetry: func(err error) bool { return true },
	}
	for _, option := range options {
		option(&opts)
	}
	return &retriedLevel[K, V]{wrapped: wrapped, opts: opts}
}

type retriedLevel[K comparable, V any] struct {
	wrapped Level[K, V]
	opts    retryOptions
}

func (l *retriedLevel[K, V]) Get(key K) *future.Future[V] {
	p := future.NewPromise[V]()
	l.attempt(key, 0, p)
	return p.Future()
}

func (l *retriedLevel[K, V]) attempt(key K, n int, p *future.Promise[V]) {
	l.wrapped.Get(key).
		OnSuccess(func(v V) {
			p.Succeed(v)
		}).
		OnCancel(func() {
			p.Cancel()
		}).
		OnFailure(func(err error) {
			if n+1 >= l.opts.maxAttempts || !l.opts.shouldRetry(err) {
				p.Fail(err)
				return
			}
			time.AfterFunc(l.opts.strategy.NextBackoff(n), func() {
				l.attempt(key, n+1, p)
			})
		})
}

func (l *retriedLevel[K, V]) Set(value V, key K) {
	l.wrapped.Set(value, key)
}

func (l *retriedLevel[K, V]) Clear() {
	l.wrapped.Clear()
}

func (l *retriedLevel[K, V]) OnMemoryWarning() {
	l.wrapped.OnMemoryWarning()
}
