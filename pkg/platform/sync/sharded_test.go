package sync

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedMap_UpdateGetDelete(t *testing.T) {
	m := NewShardedMap[int]()

	got := m.Update("a", func(cur int, ok bool) (int, bool) {
		assert.False(t, ok)
		return cur + 1, true
	})
	assert.Equal(t, 1, got)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"), "second delete is a no-op")
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestShardedMap_UpdateCanDelete(t *testing.T) {
	m := NewShardedMap[string]()
	m.Update("k", func(string, bool) (string, bool) { return "v", true })
	m.Update("k", func(string, bool) (string, bool) { return "", false })

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestShardedMap_SameKeySerializes(t *testing.T) {
	m := NewShardedMap[int]()
	var wg sync.WaitGroup
	for range 200 {
		wg.Go(func() {
			m.Update("counter", func(cur int, _ bool) (int, bool) { return cur + 1, true })
		})
	}
	wg.Wait()

	v, _ := m.Get("counter")
	assert.Equal(t, 200, v, "no lost updates under contention")
}

func TestShardedMap_SweepAndClear(t *testing.T) {
	m := NewShardedMap[int]()
	for i := range 50 {
		m.Update(fmt.Sprintf("key-%d", i), func(int, bool) (int, bool) { return i, true })
	}
	require.Equal(t, 50, m.Len())

	removed := m.Sweep(func(_ string, v int) bool { return v%2 == 0 })
	assert.Equal(t, 25, removed)
	assert.Equal(t, 25, m.Len())

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestShardIndex(t *testing.T) {
	assert.Equal(t, 0, ShardIndex("", 32))
	assert.Equal(t, ShardIndex("client-1", 32), ShardIndex("client-1", 32), "stable for a key")
	for i := range 100 {
		idx := ShardIndex(fmt.Sprintf("k%d", i), 32)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 32)
	}
}
