package cache

import (
	"sync"

	"github.com/saltfishpr/asynccache/future"
)

// Pooled wraps a Level so that for any given key at most one fetch against
// the wrapped Level is in flight at a time. Callers that request a key while
// its fetch is outstanding receive the same Future and therefore observe the
// exact same terminal outcome; once the Future is terminal the entry is
// dropped and the next Get starts a fresh fetch.
//
// Set, Clear and OnMemoryWarning pass straight through.
func Pooled[K comparable, V any](wrapped Level[K, V]) Level[K, V] {
	return &pooledLevel[K, V]{
		wrapped:  wrapped,
		inFlight: make(map[K]*future.Future[V]),
	}
}

type pooledLevel[K comparable, V any] struct {
	wrapped Level[K, V]

	// mu serializes every lookup, insert and removal on inFlight, so a
	// caller racing with an insertion either sees the new entry or creates
	// it, and a caller racing with a removal never reuses a finished Future.
	mu       sync.Mutex
	inFlight map[K]*future.Future[V]
}

func (l *pooledLevel[K, V]) Get(key K) *future.Future[V] {
	l.mu.Lock()
	if f, ok := l.inFlight[key]; ok {
		l.mu.Unlock()
		return f
	}
	// The wrapped Get is non-blocking by contract, so starting the fetch
	// inside the critical section is cheap and guarantees no duplicate
	// fetch can start before the entry is visible.
	f := l.wrapped.Get(key)
	l.inFlight[key] = f
	l.mu.Unlock()

	// Remove the entry on any terminal outcome, cancellation included, so a
	// cancelled fetch cannot leave the key permanently stuck in the pool.
	f.OnCompletion(func(future.Result[V]) {
		l.mu.Lock()
		delete(l.inFlight, key)
		l.mu.Unlock()
	})
	return f
}

func (l *pooledLevel[K, V]) Set(value V, key K) {
	l.wrapped.Set(value, key)
}

func (l *pooledLevel[K, V]) Clear() {
	l.wrapped.Clear()
}

func (l *pooledLevel[K, V]) OnMemoryWarning() {
	l.wrapped.OnMemoryWarning()
}
