package cache_test

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/policybench/internal/cache"
)

var policies = []struct {
	name    string
	factory cache.Factory
}{
	{"fifo", cache.NewFIFO},
	{"lru", cache.NewLRU},
	{"mru", cache.NewMRU},
	{"2q", cache.NewTwoQueue},
}

func fill(c cache.Cache, ids ...int) {
	for _, id := range ids {
		c.Set(id, "text "+strconv.Itoa(id))
	}
}

func TestScenario_ABCD(t *testing.T) {
	const a, b, c, d = 1, 2, 3, 4

	tests := []struct {
		name    string
		factory cache.Factory
		evicted int
		keys    []int
	}{
		{"fifo ignores the lookup", cache.NewFIFO, a, []int{b, c, d}},
		{"lru evicts least recent", cache.NewLRU, b, []int{c, a, d}},
		{"mru evicts the touched key", cache.NewMRU, a, []int{b, c, d}},
		{"2q evicts probation head", cache.NewTwoQueue, b, []int{c, d, a}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cc := tc.factory(3)
			fill(cc, a, b, c)

			_, ok := cc.Get(a)
			require.True(t, ok)

			fill(cc, d)
			assert.Equal(t, tc.keys, cc.Keys())
			assert.Equal(t, 3, cc.Len())

			_, ok = cc.Get(tc.evicted)
			assert.False(t, ok, "key %d should have been evicted", tc.evicted)
		})
	}
}

func TestFIFO_EvictsEarliestInsertRegardlessOfLookups(t *testing.T) {
	c := cache.NewFIFO(3)
	fill(c, 10, 20, 30)
	for range 5 {
		c.Get(10)
	}
	c.Get(20)

	fill(c, 40)

	assert.Equal(t, []int{20, 30, 40}, c.Keys())
	fill(c, 50)
	assert.Equal(t, []int{30, 40, 50}, c.Keys())
}

func TestLRU_HitSurvivesRefill(t *testing.T) {
	c := cache.NewLRU(4)
	fill(c, 1, 2, 3, 4)
	c.Get(1)

	fill(c, 5, 6, 7)
	assert.Equal(t, []int{1, 5, 6, 7}, c.Keys(), "every other pre-existing key goes before 1")

	fill(c, 8)
	assert.Equal(t, []int{5, 6, 7, 8}, c.Keys())
}

func TestLRU_OverwriteRefreshesRecency(t *testing.T) {
	c := cache.NewLRU(2)
	fill(c, 1, 2)
	c.Set(1, "updated")
	fill(c, 3)

	assert.Equal(t, []int{1, 3}, c.Keys())
}

func TestMRU_EvictsMostRecentlyTouched(t *testing.T) {
	c := cache.NewMRU(3)
	fill(c, 1, 2, 3)
	c.Get(2)

	fill(c, 4)
	assert.Equal(t, []int{1, 3, 4}, c.Keys())

	fill(c, 5)
	assert.Equal(t, []int{1, 3, 5}, c.Keys(), "4 was the last insert")
}

func segments(t *testing.T, c cache.Cache) (probation, protected []int) {
	t.Helper()
	s, ok := c.(cache.Segmented)
	require.True(t, ok, "%s does not expose segments", c.Name())
	return s.Segments()
}

func TestTwoQueue_PromotionOnSecondTouch(t *testing.T) {
	c := cache.NewTwoQueue(4)
	fill(c, 1, 2)

	_, ok := c.Get(1)
	require.True(t, ok)

	probation, protected := segments(t, c)
	assert.Equal(t, []int{2}, probation)
	assert.Equal(t, []int{1}, protected)

	c.Get(1)
	probation, protected = segments(t, c)
	assert.Equal(t, []int{2}, probation)
	assert.Equal(t, []int{1}, protected, "protected hits stay protected")
}

func TestTwoQueue_EvictsProbationFirst(t *testing.T) {
	c := cache.NewTwoQueue(3)
	fill(c, 1)
	c.Get(1)
	fill(c, 2, 3)

	fill(c, 4)
	probation, protected := segments(t, c)
	assert.Equal(t, []int{3, 4}, probation)
	assert.Equal(t, []int{1}, protected)

	fill(c, 5, 6)
	probation, protected = segments(t, c)
	assert.Equal(t, []int{5, 6}, probation)
	assert.Equal(t, []int{1}, protected)
}

func TestTwoQueue_EvictsProtectedWhenProbationEmpty(t *testing.T) {
	c := cache.NewTwoQueue(2)
	fill(c, 1, 2)
	c.Get(1)
	c.Get(2)

	probation, protected := segments(t, c)
	require.Empty(t, probation)
	require.Equal(t, []int{1, 2}, protected)

	fill(c, 3)
	probation, protected = segments(t, c)
	assert.Equal(t, []int{3}, probation)
	assert.Equal(t, []int{2}, protected)
}

func TestTwoQueue_ProtectedIsLRUOrdered(t *testing.T) {
	c := cache.NewTwoQueue(4)
	fill(c, 1, 2, 3)
	c.Get(1)
	c.Get(2)
	c.Get(3)
	c.Get(1)

	_, protected := segments(t, c)
	assert.Equal(t, []int{2, 3, 1}, protected)
}

func TestOverwriteIsIdempotent(t *testing.T) {
	for _, p := range policies {
		t.Run(p.name, func(t *testing.T) {
			c := p.factory(3)
			fill(c, 1, 2, 3)
			before := c.Keys()

			c.Set(2, "rewritten")

			assert.Equal(t, 3, c.Len())
			assert.ElementsMatch(t, before, c.Keys())
			got, ok := c.Get(2)
			require.True(t, ok)
			assert.Equal(t, "rewritten", got)
		})
	}
}

func TestCapacityInvariant(t *testing.T) {
	for _, p := range policies {
		t.Run(p.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, 11))
			for _, capacity := range []int{1, 2, 5, 17} {
				c := p.factory(capacity)
				var lookups int64
				for range 5000 {
					id := rng.IntN(40)
					if rng.IntN(2) == 0 {
						c.Get(id)
						lookups++
					} else {
						c.Set(id, "x")
					}

					keys := c.Keys()
					require.LessOrEqual(t, c.Len(), capacity)
					require.Len(t, keys, c.Len())
					seen := make(map[int]bool, len(keys))
					for _, k := range keys {
						require.False(t, seen[k], "duplicate key %d", k)
						seen[k] = true
					}
				}
				assert.Equal(t, lookups, c.Stats().Lookups())
			}
		})
	}
}

func TestStatsAndClear(t *testing.T) {
	for _, p := range policies {
		t.Run(p.name, func(t *testing.T) {
			c := p.factory(2)
			c.Get(1)
			fill(c, 1)
			c.Get(1)
			c.Get(2)

			assert.Equal(t, cache.Stats{Hits: 1, Misses: 2}, c.Stats())

			c.Clear()
			assert.Equal(t, cache.Stats{}, c.Stats())
			assert.Zero(t, c.Len())
			assert.Empty(t, c.Keys())

			fill(c, 5, 6, 7)
			assert.Equal(t, 2, c.Len(), "capacity survives Clear")
		})
	}
}

func TestEmptyContentIsCached(t *testing.T) {
	for _, p := range policies {
		t.Run(p.name, func(t *testing.T) {
			c := p.factory(2)
			c.Set(9, "")
			got, ok := c.Get(9)
			assert.True(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestCapacityFloor(t *testing.T) {
	c := cache.NewLRU(0)
	assert.Equal(t, 1, c.Capacity())
	fill(c, 1, 2)
	assert.Equal(t, []int{2}, c.Keys())
}

func TestHitRate(t *testing.T) {
	assert.InDelta(t, 0.0, cache.HitRate(0, 0), 1e-9)
	assert.InDelta(t, 25.0, cache.HitRate(1, 3), 1e-9)
	assert.InDelta(t, 100.0, cache.Stats{Hits: 4}.HitRate(), 1e-9)
}

func TestQuietSuppressesNarration(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	c := cache.NewTwoQueue(1)
	fill(c, 1)
	c.Get(1)
	fill(c, 2)
	assert.Contains(t, buf.String(), "promote")
	assert.Contains(t, buf.String(), "evict")

	buf.Reset()
	c.SetQuiet(true)
	fill(c, 3, 4)
	c.Get(4)
	assert.Empty(t, buf.String())
	assert.Equal(t, cache.Stats{Hits: 2}, c.Stats(), "quiet mode does not change counting")
}
