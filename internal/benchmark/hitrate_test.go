package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/policybench/internal/cache"
)

func TestReplay(t *testing.T) {
	ops := []int{1, 2, 1, 2, 3, 1}
	results := Replay([]cache.Factory{cache.NewLRU, cache.NewFIFO}, ops, []int{2, 3})

	require.Len(t, results, 2)
	assert.Equal(t, "lru", results[0].Name)
	// lru, size 2: miss miss hit hit miss(evicts 1) miss.
	assert.InDelta(t, 100.0/3, results[0].Rates[2], 1e-9)
	assert.InDelta(t, 50.0, results[0].Rates[3], 1e-9)
	// fifo, size 2: 3 evicts 1, then 1 misses.
	assert.InDelta(t, 100.0/3, results[1].Rates[2], 1e-9)
}

func TestSweep_LRUNeverLosesWithMoreRoom(t *testing.T) {
	gen := newGenerator(t, 300)
	sizes := []int{2, 5, 10, 20, 50, 100}
	results := Sweep([]cache.Factory{cache.NewLRU}, gen, 3, sizes)

	require.Len(t, results, 1)
	rates := results[0].Rates
	for i := 1; i < len(sizes); i++ {
		assert.GreaterOrEqual(t, rates[sizes[i]], rates[sizes[i-1]], "size %d", sizes[i])
	}

	// Room for every id: only first touches miss.
	var misses, total int64
	for client := range 3 {
		seq := gen.Sequence(client)
		misses += uniqueIDs(seq)
		total += int64(len(seq))
	}
	assert.InDelta(t, cache.HitRate(total-misses, misses), rates[100], 1e-9)
}

func TestSweep_MatchesTrial(t *testing.T) {
	gen := newGenerator(t, 200)
	r, err := NewRunner(Config{Capacity: 10, Clients: 3}, gen, &countingStore{}, nil)
	require.NoError(t, err)

	report, err := r.Run(t.Context(), coreFactories())
	require.NoError(t, err)
	sweep := Sweep(coreFactories(), gen, 3, []int{10})

	for i, res := range report.Results {
		assert.InDelta(t, res.HitRate, sweep[i].Rates[10], 1e-9, res.Name)
	}
}

func TestSweep_NoSizes(t *testing.T) {
	assert.Nil(t, Replay(coreFactories(), []int{1}, nil))
}
