// Package consisthash 提供基于虚拟节点的一致性哈希环，
// cache.Sharded 用它把 key 固定路由到某个分片。
package consisthash

import (
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
)

// HashFunc 定义哈希函数的类型。
type HashFunc func(data []byte) uint64

// KeyFunc 定义将节点转换为唯一标识字符串的函数，用于生成虚拟节点哈希。
type KeyFunc[T any] func(node T) string

// Ring 表示一致性哈希环。每个物理节点在环上放置 replicas 个虚拟节点，
// 添加和删除节点时只影响相邻节点的归属，最小化数据迁移。
// 所有操作都是线程安全的。
type Ring[T any] struct {
	hashFunc HashFunc
	keyFunc  KeyFunc[T]
	replicas int

	mu     sync.RWMutex
	hashes []uint64     // 排序后的虚拟节点哈希，用于二分查找
	nodes  map[uint64]T // 虚拟节点哈希到物理节点的映射
}

// Option 配置 Ring 的函数选项。
type Option[T any] func(*Ring[T])

// WithHashFunc 设置自定义哈希函数。默认使用 FNV-1a。
func WithHashFunc[T any](hf HashFunc) Option[T] {
	return func(r *Ring[T]) {
		r.hashFunc = hf
	}
}

// NewRing 创建一个空的一致性哈希环。
// replicas 是每个物理节点的虚拟节点数，通常 150-200 可获得较好的均匀性。
func NewRing[T any](replicas int, keyFunc KeyFunc[T], options ...Option[T]) *Ring[T] {
	r := &Ring[T]{
		hashFunc: fnv64a,
		keyFunc:  keyFunc,
		replicas: replicas,
		nodes:    make(map[uint64]T),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func fnv64a(data []byte) uint64 {
	f := fnv.New64a()
	f.Write(data)
	return f.Sum64()
}

// Add 将节点添加到哈希环。发生哈希冲突的虚拟节点被跳过，不覆盖已有映射。
func (r *Ring[T]) Add(nodes ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, node := range nodes {
		nodeKey := r.keyFunc(node)
		for i := 0; i < r.replicas; i++ {
			hash := r.hashFunc([]byte(virtualKey(nodeKey, i)))
			if _, exists := r.nodes[hash]; exists {
				continue
			}
			r.hashes = append(r.hashes, hash)
			r.nodes[hash] = node
		}
	}

	sort.Slice(r.hashes, func(i, j int) bool {
		return r.hashes[i] < r.hashes[j]
	})
}

// Remove 从哈希环中移除节点及其所有虚拟节点。
func (r *Ring[T]) Remove(node T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodeKey := r.keyFunc(node)
	removed := make(map[uint64]struct{}, r.replicas)
	for i := 0; i < r.replicas; i++ {
		hash := r.hashFunc([]byte(virtualKey(nodeKey, i)))
		removed[hash] = struct{}{}
		delete(r.nodes, hash)
	}

	kept := r.hashes[:0]
	for _, h := range r.hashes {
		if _, ok := removed[h]; !ok {
			kept = append(kept, h)
		}
	}
	r.hashes = kept
}

// Lookup 返回 key 在环上顺时针方向命中的节点。环为空时返回零值和 false。
func (r *Ring[T]) Lookup(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.hashes) == 0 {
		var zero T
		return zero, false
	}

	hash := r.hashFunc([]byte(key))
	idx := sort.Search(len(r.hashes), func(i int) bool {
		return r.hashes[i] >= hash
	})
	// 回绕到环的起点
	if idx == len(r.hashes) {
		idx = 0
	}
	return r.nodes[r.hashes[idx]], true
}

// virtualKey 通过拼接索引和 key 生成虚拟节点的唯一标识。
func virtualKey(key string, idx int) string {
	return strconv.Itoa(idx) + "@" + key
}
