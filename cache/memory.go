package cache

import (
	"github.com/saltfishpr/asynccache/future"
	"github.com/saltfishpr/asynccache/lru"
)

// NewMemory returns an in-process Level bounded by capacity, with least
// recently used eviction. Get resolves synchronously: an already-succeeded
// Future on a hit, a Future failed with ErrValueNotFound on a miss.
// OnMemoryWarning drops every entry.
func NewMemory[K comparable, V any](capacity int) Level[K, V] {
	return &memoryLevel[K, V]{store: lru.New[K, V](capacity)}
}

type memoryLevel[K comparable, V any] struct {
	store *lru.Cache[K, V]
}

func (l *memoryLevel[K, V]) Get(key K) *future.Future[V] {
	if v, ok := l.store.Get(key); ok {
		return future.Done(v)
	}
	return future.Failed[V](ErrValueNotFound)
}

func (l *memoryLevel[K, V]) Set(value V, key K) {
	l.store.Put(key, value)
}

func (l *memoryLevel[K, V]) Clear() {
	l.store.Purge()
}

func (l *memoryLevel[K, V]) OnMemoryWarning() {
	l.store.Purge()
}
