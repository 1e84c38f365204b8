// Package lru 提供了一个并发安全的泛型 LRU 缓存，作为 cache.NewMemory 的存储后端。
package lru

import (
	"container/list"
	"sync"
)

// entry 是存储在双向链表中的内部键值对。
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache 是一个支持泛型键值类型的并发安全 LRU 缓存。
//
// 使用双向链表维护访问顺序，哈希映射实现 O(1) 查找。
// 互斥锁保证多个 goroutine 的安全并发访问。
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[K]*list.Element
}

// New 创建一个最大容量为 capacity 的 LRU Cache。
// capacity 必须大于 0，否则会 panic。
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		panic("lru: capacity must be positive")
	}
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Get 查找键并将命中的条目提升为最近使用。未命中时返回零值和 false。
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, hit := c.items[key]; hit {
		c.ll.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Put 插入或更新键值对；缓存已满时先驱逐最近最少使用的条目。
// 如果发生了驱逐则返回 true。
func (c *Cache[K, V]) Put(key K, value V) (evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, hit := c.items[key]; hit {
		c.ll.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value
		return false
	}

	if c.ll.Len() >= c.capacity {
		c.removeLRU()
		evicted = true
	}

	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value})
	return evicted
}

// Delete 删除键对应的条目（如果存在）。如果找到键则返回 true。
func (c *Cache[K, V]) Delete(key K) (ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, hit := c.items[key]; hit {
		c.removeElement(elem)
		return true
	}
	return false
}

// Len 返回缓存中当前条目的数量。
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge 从缓存中删除所有条目。
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[K]*list.Element, c.capacity)
}

// removeLRU 移除最近最少使用的元素。
func (c *Cache[K, V]) removeLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
	}
}

// removeElement 从链表和映射中移除一个元素。
func (c *Cache[K, V]) removeElement(e *list.Element) {
	c.ll.Remove(e)
	delete(c.items, e.Value.(*entry[K, V]).key)
}
