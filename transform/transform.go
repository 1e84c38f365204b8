// Package transform defines asynchronous value transformers: one-directional
// (decode, parse) and two-directional (encode/decode, encrypt/decrypt) steps
// that compose with cache levels via cache.TransformValues.
package transform

import (
	"github.com/saltfishpr/asynccache/future"
)

// OneWay transforms values of type I into values of type O, possibly
// asynchronously. Implementations must be safe for concurrent use.
type OneWay[I, O any] interface {
	Transform(in I) *future.Future[O]
}

// OneWayFunc adapts a plain function to the OneWay interface.
type OneWayFunc[I, O any] func(in I) *future.Future[O]

func (f OneWayFunc[I, O]) Transform(in I) *future.Future[O] {
	return f(in)
}

// TwoWay is a OneWay with an inverse direction. The inverse is expected to
// round-trip: InverseTransform(Transform(x)) eventually resolves to x.
type TwoWay[I, O any] interface {
	OneWay[I, O]
	InverseTransform(out O) *future.Future[I]
}

// NewOneWay builds a OneWay from a synchronous function, running it on the
// process future executor.
func NewOneWay[I, O any](fn func(in I) (O, error)) OneWay[I, O] {
	return OneWayFunc[I, O](func(in I) *future.Future[O] {
		return future.Async(func() (O, error) {
			return fn(in)
		})
	})
}

// NewTwoWay builds a TwoWay from the two directions.
func NewTwoWay[I, O any](forward func(in I) *future.Future[O], inverse func(out O) *future.Future[I]) TwoWay[I, O] {
	return &twoWay[I, O]{forward: forward, inverse: inverse}
}

type twoWay[I, O any] struct {
	forward func(in I) *future.Future[O]
	inverse func(out O) *future.Future[I]
}

func (t *twoWay[I, O]) Transform(in I) *future.Future[O] {
	return t.forward(in)
}

func (t *twoWay[I, O]) InverseTransform(out O) *future.Future[I] {
	return t.inverse(out)
}

// Compose chains first then second: the output of first feeds second.
// Failure or cancellation anywhere propagates to the composed Future.
func Compose[A, B, C any](first OneWay[A, B], second OneWay[B, C]) OneWay[A, C] {
	return OneWayFunc[A, C](func(in A) *future.Future[C] {
		return future.ThenFuture(first.Transform(in), second.Transform)
	})
}

// Invert swaps the directions of a TwoWay.
func Invert[I, O any](t TwoWay[I, O]) TwoWay[O, I] {
	return &twoWay[O, I]{forward: t.InverseTransform, inverse: t.Transform}
}
