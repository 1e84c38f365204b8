package retry

import (
	"context"
	"time"
)

type options struct {
	maxAttempts int
	strategy    Strategy
	shouldRetry func(err error) bool
}

type Option func(*options)

func WithMaxAttempts(maxAttempts int) Option {
	return func(opts *options) {
		opts.maxAttempts = maxAttempts
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(opts *options) {
		opts.strategy = strategy
	}
}

func WithShouldRetryFunc(fn func(err error) bool) Option {
	return func(opts *options) {
		opts.shouldRetry = fn
	}
}

// Do 同步执行 f，失败时按策略重试，返回最后一次的结果。
func Do[T any](ctx context.Context, f func() (T, error), opts ...Option) (T, error) {
	o := options{
		maxAttempts: 3,
		strategy:    FixedBackoff(100 * time.Millisecond),
		shouldRetry: func(err error) bool {
			return true
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		// 执行前检查 Context 是否已取消
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := f()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if o.shouldRetry != nil && !o.shouldRetry(err) {
			break
		}

		// 如果是最后一次尝试，则不再等待
		if attempt == o.maxAttempts-1 {
			break
		}

		select {
		case <-time.After(o.strategy.NextBackoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
