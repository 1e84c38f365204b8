package cache

import (
	"strconv"

	"github.com/saltfishpr/asynccache/consisthash"
	"github.com/saltfishpr/asynccache/future"
)

// shardReplicas 每个分片在哈希环上的虚拟节点数。
const shardReplicas = 150

// Sharded 通过一致性哈希环把每个 key 固定路由到 levels 中的一个分片。
// keyFn 把 key 转换为参与哈希的字符串。Get 和 Set 只命中对应分片，
// Clear 和 OnMemoryWarning 广播到所有分片。
//
// levels 为空时 panic。
func Sharded[K comparable, V any](keyFn func(K) string, levels ...Level[K, V]) Level[K, V] {
	if len(levels) == 0 {
		panic("cache: Sharded requires at least one level")
	}
	ring := consisthash.NewRing(shardReplicas, func(n shardNode[K, V]) string {
		return strconv.Itoa(n.id)
	})
	for i, level := range levels {
		ring.Add(shardNode[K, V]{id: i, level: level})
	}
	return &shardedLevel[K, V]{keyFn: keyFn, ring: ring, levels: levels}
}

type shardNode[K comparable, V any] struct {
	id    int
	level Level[K, V]
}

type shardedLevel[K comparable, V any] struct {
	keyFn  func(K) string
	ring   *consisthash.Ring[shardNode[K, V]]
	levels []Level[K, V]
}

func (l *shardedLevel[K, V]) shard(key K) Level[K, V] {
	// 构造时已保证环非空。
	node, _ := l.ring.Lookup(l.keyFn(key))
	return node.level
}

func (l *shardedLevel[K, V]) Get(key K) *future.Future[V] {
	return l.shard(key).Get(key)
}

func (l *shardedLevel[K, V]) Set(value V, key K) {
	l.shard(key).Set(value, key)
}

func (l *shardedLevel[K, V]) Clear() {
	for _, level := range l.levels {
		level.Clear()
	}
}

func (l *shardedLevel[K, V]) OnMemoryWarning() {
	for _, level := range l.levels {
		level.OnMemoryWarning()
	}
}
