package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMap is a string-keyed map split across fixed shards, each guarded by its own
// mutex. Operations on one key serialize; operations on keys in different shards do not.
type ShardedMap[V any] struct {
	shards [shardCount]mapShard[V]
}

type mapShard[V any] struct {
	mu    sync.Mutex
	items map[string]V
}

// NewShardedMap creates an empty ShardedMap.
func NewShardedMap[V any]() *ShardedMap[V] {
	m := &ShardedMap[V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[string]V)
	}
	return m
}

// Update runs fn under the key's shard lock. fn receives the current value (zero value and
// ok=false when absent) and returns the value to store; returning keep=false deletes the key.
// The stored value is returned.
func (m *ShardedMap[V]) Update(key string, fn func(current V, ok bool) (next V, keep bool)) V {
	sh := m.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, ok := sh.items[key]
	next, keep := fn(current, ok)
	if !keep {
		delete(sh.items, key)
		return next
	}
	sh.items[key] = next
	return next
}

// Get returns the value stored for key.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	sh := m.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	v, ok := sh.items[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (m *ShardedMap[V]) Delete(key string) bool {
	sh := m.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.items[key]
	delete(sh.items, key)
	return ok
}

// Clear removes every key, one shard at a time.
func (m *ShardedMap[V]) Clear() {
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		sh.items = make(map[string]V)
		sh.mu.Unlock()
	}
}

// Sweep visits every entry with its shard locked. Returning keep=false deletes the entry.
// It returns the number of deleted entries.
func (m *ShardedMap[V]) Sweep(fn func(key string, v V) (keep bool)) int {
	removed := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		for k, v := range sh.items {
			if !fn(k, v) {
				delete(sh.items, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len returns the number of keys. The count is not a consistent snapshot across shards.
func (m *ShardedMap[V]) Len() int {
	n := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		n += len(sh.items)
		sh.mu.Unlock()
	}
	return n
}

func (m *ShardedMap[V]) shardFor(key string) *mapShard[V] {
	return &m.shards[ShardIndex(key, shardCount)]
}

// ShardIndex maps key onto [0, n). Empty keys map to shard 0.
func ShardIndex(key string, n int) int {
	if key == "" || n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
