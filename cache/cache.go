// Package cache provides a composable cache-level abstraction on top of the
// future package. A Level is anything that can asynchronously resolve values
// by key; decorators such as Pooled and Conditioned wrap a Level and change
// only how Get behaves, forwarding everything else to the wrapped Level.
package cache

import (
	"errors"

	"github.com/saltfishpr/asynccache/future"
)

var (
	// ErrValueNotFound reports that a Level holds no value for the requested
	// key. Absence is always delivered as a failed Future, never a nil one.
	ErrValueNotFound = errors.New("cache: value not found")
	// ErrConditionNotSatisfied reports that a gating condition evaluated to
	// false, so the wrapped Level was never consulted. Distinct from any
	// backend error so callers can tell policy rejection from a miss.
	ErrConditionNotSatisfied = errors.New("cache: condition not satisfied")
)

// Level is the capability contract of a cache layer, concrete or composed.
//
// Implementations must be safe for concurrent use. Get never blocks the
// caller and never returns nil; waiting is expressed by registering observers
// on the returned Future.
type Level[K comparable, V any] interface {
	// Get returns a Future that resolves with the value for key or fails
	// with a backend-specific error (ErrValueNotFound for plain absence).
	Get(key K) *future.Future[V]
	// Set stores value under key. Best effort and fire-and-forget: write
	// failures are a backend concern and are not surfaced to the caller.
	Set(value V, key K)
	// Clear purges all cached values. Futures already returned by Get are
	// unaffected.
	Clear()
	// OnMemoryWarning signals memory pressure. Decorators forward it
	// unconditionally down to the ultimate backend.
	OnMemoryWarning()
}

// Condition is an asynchronous predicate over a key, used by Conditioned to
// gate Get. The returned Future resolves to the verdict, or fails with a
// domain-specific error explaining the rejection.
type Condition[K any] interface {
	Evaluate(key K) *future.Future[bool]
}

// ConditionFunc adapts a plain function to the Condition interface.
type ConditionFunc[K any] func(key K) *future.Future[bool]

func (f ConditionFunc[K]) Evaluate(key K) *future.Future[bool] {
	return f(key)
}

// FetcherFunc adapts a plain fetch function into a read-only Level, typically
// the innermost layer of a composed cache (a network call, a decode step).
// Set, Clear and OnMemoryWarning are no-ops. The fetch runs on the process
// future executor.
type FetcherFunc[K comparable, V any] func(key K) (V, error)

func (f FetcherFunc[K, V]) Get(key K) *future.Future[V] {
	return future.Async(func() (V, error) {
		return f(key)
	})
}

func (f FetcherFunc[K, V]) Set(value V, key K) {}

func (f FetcherFunc[K, V]) Clear() {}

func (f FetcherFunc[K, V]) OnMemoryWarning() {}
