package transform

import (
	"github.com/saltfishpr/asynccache/cache"
	"github.com/saltfishpr/asynccache/future"
)

// Conditioned gates the forward direction of t behind cond, with the same
// three-way branch as cache.Conditioned: a true verdict forwards and mimics,
// a false verdict fails with cache.ErrConditionNotSatisfied, and a condition
// failure or cancellation propagates unchanged.
func Conditioned[I, O any](t OneWay[I, O], cond cache.Condition[I]) OneWay[I, O] {
	return OneWayFunc[I, O](func(in I) *future.Future[O] {
		return gated(cond, in, t.Transform)
	})
}

// ConditionedTwoWay gates each direction of t behind its own independent
// condition: forward over the input type, inverse over the output type.
func ConditionedTwoWay[I, O any](t TwoWay[I, O], forward cache.Condition[I], inverse cache.Condition[O]) TwoWay[I, O] {
	return &twoWay[I, O]{
		forward: func(in I) *future.Future[O] {
			return gated(forward, in, t.Transform)
		},
		inverse: func(out O) *future.Future[I] {
			return gated(inverse, out, t.InverseTransform)
		},
	}
}

func gated[T, R any](cond cache.Condition[T], in T, fn func(T) *future.Future[R]) *future.Future[R] {
	p := future.NewPromise[R]()
	cond.Evaluate(in).
		OnSuccess(func(ok bool) {
			if !ok {
				p.Fail(cache.ErrConditionNotSatisfied)
				return
			}
			p.Mimic(fn(in))
		}).
		OnFailure(func(err error) {
			p.Fail(err)
		}).
		OnCancel(func() {
			p.Cancel()
		})
	return p.Future()
}
