package future

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/saltfishpr/asynccache/routine"
)

var (
	// ErrPanic wraps a panic recovered from a task submitted via Async or Submit.
	ErrPanic = errors.New("async panic")
	// ErrTimeout is the failure produced by Timeout and Until.
	ErrTimeout = errors.New("future timeout")
	// ErrCancelled is returned by the blocking accessors of a cancelled Future.
	ErrCancelled = errors.New("future cancelled")
)

// Get blocks until the Future is terminal and returns its outcome: the value
// on success, the error on failure, or ErrCancelled on cancellation.
//
// Callback registration is the primary way to consume a Future; Get exists for
// tests and for bridging into synchronous code.
func (f *Future[T]) Get() (T, error) {
	<-f.state.done
	return unpack(f.state.result())
}

// GetContext is Get with a bounded wait: it returns ctx.Err if ctx is done
// before the Future is terminal. The Future itself is not affected.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.state.done:
		return unpack(f.state.result())
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func unpack[T any](r Result[T]) (T, error) {
	if r.Cancelled() {
		var zero T
		return zero, ErrCancelled
	}
	return r.value, r.err
}

// Async runs fn on the process-wide executor and returns a Future for its
// outcome. A panic inside fn fails the Future with an error wrapping ErrPanic.
func Async[T any](fn func() (T, error)) *Future[T] {
	return Submit(executor, fn)
}

// Submit runs fn on e and returns a Future for its outcome.
func Submit[T any](e Executor, fn func() (T, error)) *Future[T] {
	p := NewPromise[T]()
	e.Submit(func() {
		var val T
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrPanic, routine.NewRecovered(2, r).AsError())
			}
			if err != nil {
				p.Fail(err)
			} else {
				p.Succeed(val)
			}
		}()
		val, err = fn()
	})
	return p.Future()
}

// Done returns an already-succeeded Future holding val.
func Done[T any](val T) *Future[T] {
	p := NewPromise[T]()
	p.Succeed(val)
	return p.Future()
}

// Failed returns an already-failed Future holding err.
func Failed[T any](err error) *Future[T] {
	p := NewPromise[T]()
	p.Fail(err)
	return p.Future()
}

// Cancelled returns an already-cancelled Future.
func Cancelled[T any]() *Future[T] {
	p := NewPromise[T]()
	p.Cancel()
	return p.Future()
}

// Then derives a Future by applying fn to the success value of f. Failure and
// cancellation of f propagate to the derived Future unchanged; an error from
// fn fails it.
func Then[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	p := NewPromise[R]()
	f.OnCompletion(func(r Result[T]) {
		switch r.state {
		case StateSucceeded:
			rv, err := fn(r.value)
			if err != nil {
				p.Fail(err)
			} else {
				p.Succeed(rv)
			}
		case StateFailed:
			p.Fail(r.err)
		case StateCancelled:
			p.Cancel()
		}
	})
	return p.Future()
}

// ThenFuture is Then for asynchronous continuations: fn returns a Future whose
// outcome the derived Future mimics.
func ThenFuture[T, R any](f *Future[T], fn func(T) *Future[R]) *Future[R] {
	p := NewPromise[R]()
	f.OnCompletion(func(r Result[T]) {
		switch r.state {
		case StateSucceeded:
			p.Mimic(fn(r.value))
		case StateFailed:
			p.Fail(r.err)
		case StateCancelled:
			p.Cancel()
		}
	})
	return p.Future()
}

// All collects the success values of fs in order. The first failure or
// cancellation among fs resolves the returned Future with that outcome;
// Promise idempotency discards the rest.
func All[T any](fs ...*Future[T]) *Future[[]T] {
	if len(fs) == 0 {
		return Done[[]T](nil)
	}

	p := NewPromise[[]T]()
	remaining := int32(len(fs))
	results := make([]T, len(fs))
	for i, f := range fs {
		i := i
		f.OnCompletion(func(r Result[T]) {
			switch r.state {
			case StateSucceeded:
				results[i] = r.value
				if atomic.AddInt32(&remaining, -1) == 0 {
					p.Succeed(results)
				}
			case StateFailed:
				p.Fail(r.err)
			case StateCancelled:
				p.Cancel()
			}
		})
	}
	return p.Future()
}

// Timeout races f against a timer: the returned Future mimics f, unless d
// elapses first, in which case it fails with ErrTimeout. f itself keeps
// running and is not cancelled.
func Timeout[T any](f *Future[T], d time.Duration) *Future[T] {
	p := NewPromise[T]()
	t := time.AfterFunc(d, func() {
		p.Fail(ErrTimeout)
	})
	f.OnCompletion(func(Result[T]) {
		t.Stop()
	})
	p.Mimic(f)
	return p.Future()
}

// Until is Timeout with an absolute deadline.
func Until[T any](f *Future[T], deadline time.Time) *Future[T] {
	return Timeout(f, time.Until(deadline))
}
