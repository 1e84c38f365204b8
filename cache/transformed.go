package cache

import (
	"github.com/saltfishpr/asynccache/future"
)

// ValueTransformer converts between the value type stored by a wrapped Level
// and the value type exposed to callers. transform.TwoWay implementations
// satisfy it.
type ValueTransformer[V, W any] interface {
	Transform(in V) *future.Future[W]
	InverseTransform(out W) *future.Future[V]
}

// TransformValues exposes a Level[K, V] as a Level[K, W]: Get runs the
// forward transformation on fetched values, Set runs the inverse
// transformation before writing through. A transformation failure surfaces on
// the Get Future; on Set it silently drops the write, matching the
// fire-and-forget contract.
func TransformValues[K comparable, V, W any](wrapped Level[K, V], t ValueTransformer[V, W]) Level[K, W] {
	return &valueTransformedLevel[K, V, W]{wrapped: wrapped, t: t}
}

type valueTransformedLevel[K comparable, V, W any] struct {
	wrapped Level[K, V]
	t       ValueTransformer[V, W]
}

func (l *valueTransformedLevel[K, V, W]) Get(key K) *future.Future[W] {
	return future.ThenFuture(l.wrapped.Get(key), l.t.Transform)
}

func (l *valueTransformedLevel[K, V, W]) Set(value W, key K) {
	l.t.InverseTransform(value).OnSuccess(func(v V) {
		l.wrapped.Set(v, key)
	})
}

func (l *valueTransformedLevel[K, V, W]) Clear() {
	l.wrapped.Clear()
}

func (l *valueTransformedLevel[K, V, W]) OnMemoryWarning() {
	l.wrapped.OnMemoryWarning()
}

// TransformKeys exposes a Level[K1, V] under a different key type: every
// operation maps the caller's key through fn first. A mapping error fails the
// Get Future and drops the Set.
func TransformKeys[K1, K2 comparable, V any](wrapped Level[K1, V], fn func(K2) (K1, error)) Level[K2, V] {
	return &keyTransformedLevel[K1, K2, V]{wrapped: wrapped, fn: fn}
}

type keyTransformedLevel[K1, K2 comparable, V any] struct {
	wrapped Level[K1, V]
	fn      func(K2) (K1, error)
}

func (l *keyTransformedLevel[K1, K2, V]) Get(key K2) *future.Future[V] {
	k, err := l.fn(key)
	if err != nil {
		return future.Failed[V](err)
	}
	return l.wrapped.Get(k)
}

func (l *keyTransformedLevel[K1, K2, V]) Set(value V, key K2) {
	k, err := l.fn(key)
	if err != nil {
		return
	}
	l.wrapped.Set(value, k)
}

func (l *keyTransformedLevel[K1, K2, V]) Clear() {
	l.wrapped.Clear()
}

func (l *keyTransformedLevel[K1, K2, V]) OnMemoryWarning() {
	l.wrapped.OnMemoryWarning()
}
