package cache

import (
	"github.com/saltfishpr/asynccache/future"
)

// Conditioned wraps a Level with an asynchronous gate: every Get first
// evaluates cond for the key.
//
//   - condition true: the call is forwarded and the caller's Future mimics
//     the wrapped outcome, value for value and error for error;
//   - condition false: the caller's Future fails with
//     ErrConditionNotSatisfied and the wrapped Level is never consulted;
//   - condition failure or cancellation: propagated to the caller unchanged,
//     without consulting the wrapped Level.
//
// Set, Clear and OnMemoryWarning pass straight through, ungated.
func Conditioned[K comparable, V any](wrapped Level[K, V], cond Condition[K]) Level[K, V] {
	return &conditionedLevel[K, V]{wrapped: wrapped, cond: cond}
}

type conditionedLevel[K comparable, V any] struct {
	wrapped Level[K, V]
	cond    Condition[K]
}

func (l *conditionedLevel[K, V]) Get(key K) *future.Future[V] {
	p := future.NewPromise[V]()
	l.cond.Evaluate(key).
		OnSuccess(func(ok bool) {
			if !ok {
				p.Fail(ErrConditionNotSatisfied)
				return
			}
			p.Mimic(l.wrapped.Get(key))
		}).
		OnFailure(func(err error) {
			p.Fail(err)
		}).
		OnCancel(func() {
			p.Cancel()
		})
	return p.Future()
}

func (l *conditionedLevel[K, V]) Set(value V, key K) {
	l.wrapped.Set(value, key)
}

func (l *conditionedLevel[K, V]) Clear() {
	l.wrapped.Clear()
}

func (l *conditionedLevel[K, V]) OnMemoryWarning() {
	l.wrapped.OnMemoryWarning()
}
