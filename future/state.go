package future

import (
	"sync"
)

// State describes the lifecycle of a Future. A Future starts Pending and
// performs exactly one transition to Succeeded, Failed or Cancelled.
type State uint32

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the immutable terminal outcome of a Future, delivered to
// OnCompletion observers. Exactly one of Value/Err/cancellation applies,
// according to State.
type Result[T any] struct {
	state State
	value T
	err   error
}

func (r Result[T]) State() State { return r.state }

// Value returns the success value. It is the zero value unless Succeeded.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure error. It is nil unless Failed.
func (r Result[T]) Err() error { return r.err }

func (r Result[T]) Succeeded() bool { return r.state == StateSucceeded }
func (r Result[T]) Failed() bool    { return r.state == StateFailed }
func (r Result[T]) Cancelled() bool { return r.state == StateCancelled }

// state is the shared cell between a Promise and its Future: a one-shot,
// single-producer multi-consumer broadcast of a terminal Result.
//
// The mutex guards the state transition and the observer lists. Observers are
// never invoked while the mutex is held, so an observer may synchronously
// register on this or any other Future without deadlocking. Within one bucket
// observers fire in registration order; an observer registered after the
// terminal transition fires immediately on the registering goroutine.
type state[T any] struct {
	noCopy noCopy

	mu   sync.Mutex
	st   State
	val  T
	err  error
	done chan struct{}

	successObs    []func(T)
	failureObs    []func(error)
	cancelObs     []func()
	completionObs []func(Result[T])
}

func newState[T any]() *state[T] {
	return &state[T]{done: make(chan struct{})}
}

// resolve performs the Pending -> terminal transition. It reports false, and
// changes nothing, if the cell is already terminal.
func (s *state[T]) resolve(st State, val T, err error) bool {
	s.mu.Lock()
	if s.st != StatePending {
		s.mu.Unlock()
		return false
	}
	s.st = st
	s.val = val
	s.err = err

	success := s.successObs
	failure := s.failureObs
	cancel := s.cancelObs
	completion := s.completionObs
	s.successObs, s.failureObs, s.cancelObs, s.completionObs = nil, nil, nil, nil
	s.mu.Unlock()

	close(s.done)

	switch st {
	case StateSucceeded:
		for _, f := range success {
			f(val)
		}
	case StateFailed:
		for _, f := range failure {
			f(err)
		}
	case StateCancelled:
		for _, f := range cancel {
			f()
		}
	}
	res := Result[T]{state: st, value: val, err: err}
	for _, f := range completion {
		f(res)
	}
	return true
}

func (s *state[T]) result() Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result[T]{state: s.st, value: s.val, err: s.err}
}

func (s *state[T]) onSuccess(f func(T)) {
	s.mu.Lock()
	switch s.st {
	case StatePending:
		s.successObs = append(s.successObs, f)
		s.mu.Unlock()
	case StateSucceeded:
		val := s.val
		s.mu.Unlock()
		f(val)
	default:
		s.mu.Unlock()
	}
}

func (s *state[T]) onFailure(f func(error)) {
	s.mu.Lock()
	switch s.st {
	case StatePending:
		s.failureObs = append(s.failureObs, f)
		s.mu.Unlock()
	case StateFailed:
		err := s.err
		s.mu.Unlock()
		f(err)
	default:
		s.mu.Unlock()
	}
}

func (s *state[T]) onCancel(f func()) {
	s.mu.Lock()
	switch s.st {
	case StatePending:
		s.cancelObs = append(s.cancelObs, f)
		s.mu.Unlock()
	case StateCancelled:
		s.mu.Unlock()
		f()
	default:
		s.mu.Unlock()
	}
}

func (s *state[T]) onCompletion(f func(Result[T])) {
	s.mu.Lock()
	if s.st == StatePending {
		s.completionObs = append(s.completionObs, f)
		s.mu.Unlock()
		return
	}
	res := Result[T]{state: s.st, value: s.val, err: s.err}
	s.mu.Unlock()
	f(res)
}

func (s *state[T]) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// noCopy 可以添加到首次使用后不得被复制的结构体中。
//
// 详情请参见：https://golang.org/issues/8005#issuecomment-190753527
//
// 注意：由于 Lock 和 Unlock 方法，不得嵌入此结构体。
type noCopy struct{}

// Lock 是一个空操作，由 `go vet` 的 -copylocks 检查器使用。
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
