package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharded_RoutesConsistently(t *testing.T) {
	shards := []*fakeLevel[string, int]{
		newFakeLevel[string, int](nil),
		newFakeLevel[string, int](nil),
		newFakeLevel[string, int](nil),
	}
	level := Sharded[string, int](func(k string) string { return k },
		shards[0], shards[1], shards[2])

	// Repeated gets for one key always land on the same shard.
	for i := 0; i < 5; i++ {
		level.Get("stable-key")
	}
	total := 0
	hit := 0
	for _, s := range shards {
		n := s.getCount("stable-key")
		total += n
		if n > 0 {
			hit++
		}
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 1, hit)
}

func TestSharded_SetFollowsGetRouting(t *testing.T) {
	mems := []Level[string, string]{
		NewMemory[string, string](16),
		NewMemory[string, string](16),
	}
	level := Sharded[string, string](func(k string) string { return k }, mems...)

	for i := 0; i < 10; i++ {
		key := "key-" + strconv.Itoa(i)
		level.Set("value-"+strconv.Itoa(i), key)
		val, err := level.Get(key).Get()
		require.NoError(t, err)
		assert.Equal(t, "value-"+strconv.Itoa(i), val)
	}
}

func TestSharded_BroadcastOps(t *testing.T) {
	shards := []*fakeLevel[string, int]{
		newFakeLevel[string, int](nil),
		newFakeLevel[string, int](nil),
	}
	level := Sharded[string, int](func(k string) string { return k },
		shards[0], shards[1])

	level.Clear()
	level.OnMemoryWarning()

	for _, s := range shards {
		clears, warnings := s.counters()
		assert.Equal(t, 1, clears)
		assert.Equal(t, 1, warnings)
	}
}

func TestSharded_NoLevelsPanics(t *testing.T) {
	assert.Panics(t, func() {
		Sharded[string, int](func(k string) string { return k })
	})
}
