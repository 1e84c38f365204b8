// Package future provides a single-assignment Promise-Future pair with
// callback-based observation and three mutually exclusive terminal outcomes:
// success, failure and cancellation.
// Inspired by https://github.com/jizhuozhi/go-future
package future

// Promise is the exclusive write side of a Future: the operation that resolves
// the shared state synchronizes-with (as defined in Go's memory model) every
// observer invocation and every successful return from Future.Get.
//
// A Promise is meant to be resolved only once. Succeed, Fail and Cancel report
// false and change nothing when the paired Future is already terminal; results
// that were already delivered are never overwritten. Hand the Future to
// consumers and keep the Promise private to the producing component.
//
// A Promise must not be copied after first use.
type Promise[T any] struct {
	state *state[T]
}

// NewPromise creates a pending Promise/Future pair.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{state: newState[T]()}
}

// Succeed resolves the paired Future with val.
// It reports false if the Future is already terminal.
func (p *Promise[T]) Succeed(val T) bool {
	return p.state.resolve(StateSucceeded, val, nil)
}

// Fail resolves the paired Future with err.
// It reports false if the Future is already terminal.
func (p *Promise[T]) Fail(err error) bool {
	var zero T
	return p.state.resolve(StateFailed, zero, err)
}

// Cancel resolves the paired Future as cancelled.
// It reports false if the Future is already terminal.
func (p *Promise[T]) Cancel() bool {
	var zero T
	return p.state.resolve(StateCancelled, zero, nil)
}

// Mimic forwards the eventual outcome of src into this Promise's Future,
// whichever of the three outcomes it is. A single observer on src does the
// forwarding; no further layers of indirection are added. If this Promise is
// resolved before src completes, the forwarded outcome is dropped.
func (p *Promise[T]) Mimic(src *Future[T]) {
	src.state.onCompletion(func(r Result[T]) {
		switch r.state {
		case StateSucceeded:
			p.Succeed(r.value)
		case StateFailed:
			p.Fail(r.err)
		case StateCancelled:
			p.Cancel()
		}
	})
}

// Future returns the read-only view associated with the Promise.
func (p *Promise[T]) Future() *Future[T] {
	return &Future[T]{state: p.state}
}

// IsPending reports whether the Promise has not been resolved yet.
func (p *Promise[T]) IsPending() bool {
	return p.state.currentState() == StatePending
}

// Future is the read side of an asynchronous result. Many observers may share
// one Future; none of them can resolve it — only the paired Promise can.
//
// Observers registered before resolution are buffered and fired, in
// registration order within their bucket, by the goroutine that resolves the
// Promise. Observers registered after resolution fire immediately on the
// registering goroutine. Each observer fires at most once, and only the bucket
// matching the terminal outcome ever fires.
type Future[T any] struct {
	state *state[T]
}

// OnSuccess registers f to be called with the value if the Future succeeds.
// It returns the Future itself to allow chaining.
func (f *Future[T]) OnSuccess(fn func(T)) *Future[T] {
	f.state.onSuccess(fn)
	return f
}

// OnFailure registers fn to be called with the error if the Future fails.
// It returns the Future itself to allow chaining.
func (f *Future[T]) OnFailure(fn func(error)) *Future[T] {
	f.state.onFailure(fn)
	return f
}

// OnCancel registers fn to be called if the Future is cancelled.
// It returns the Future itself to allow chaining.
func (f *Future[T]) OnCancel(fn func()) *Future[T] {
	f.state.onCancel(fn)
	return f
}

// OnCompletion registers fn to be called with the terminal Result, whichever
// of the three outcomes it is. It returns the Future itself to allow chaining.
//
// NOTE: observers run on the goroutine that resolves the Promise and should
// not contain blocking operations.
func (f *Future[T]) OnCompletion(fn func(Result[T])) *Future[T] {
	f.state.onCompletion(fn)
	return f
}

// State returns the current state of the Future.
func (f *Future[T]) State() State {
	return f.state.currentState()
}

// IsDone reports whether the Future reached a terminal state.
func (f *Future[T]) IsDone() bool {
	return f.state.currentState() != StatePending
}

// Result returns the terminal Result without blocking. Before resolution the
// returned Result has State StatePending.
func (f *Future[T]) Result() Result[T] {
	return f.state.result()
}
