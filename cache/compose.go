package cache

import (
	"github.com/saltfishpr/asynccache/future"
)

// Compose layers first over second as a read-through pair: Get tries first
// and, on any failure, falls back to second; a value fetched from second is
// written back into first before being delivered. Cancellation of the first
// lookup cancels the composed Future without consulting second.
//
// Set, Clear and OnMemoryWarning fan out to both levels.
func Compose[K comparable, V any](first, second Level[K, V]) Level[K, V] {
	return &composedLevel[K, V]{first: first, second: second}
}

type composedLevel[K comparable, V any] struct {
	first, second Level[K, V]
}

func (l *composedLevel[K, V]) Get(key K) *future.Future[V] {
	p := future.NewPromise[V]()
	l.first.Get(key).
		OnSuccess(func(v V) {
			p.Succeed(v)
		}).
		OnFailure(func(error) {
			fallback := l.second.Get(key)
			fallback.OnSuccess(func(v V) {
				l.first.Set(v, key)
			})
			p.Mimic(fallback)
		}).
		OnCancel(func() {
			p.Cancel()
		})
	return p.Future()
}

func (l *composedLevel[K, V]) Set(value V, key K) {
	l.first.Set(value, key)
	l.second.Set(value, key)
}

func (l *composedLevel[K, V]) Clear() {
	l.first.Clear()
	l.second.Clear()
}

func (l *composedLevel[K, V]) OnMemoryWarning() {
	l.first.OnMemoryWarning()
	l.second.OnMemoryWarning()
}
