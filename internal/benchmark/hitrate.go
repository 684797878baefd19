package benchmark

import (
	"strconv"

	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/workload"
)

// HitRateResult holds hit rate results for a single cache.
type HitRateResult struct {
	Name  string          `json:"name"`
	Rates map[int]float64 `json:"rates"` // cache size -> hit rate percentage
}

// DefaultCacheSizes are the cache sizes swept over the 100-item id space.
var DefaultCacheSizes = []int{5, 10, 20, 40}

// Sweep measures the hit rate of each policy at every size over the same
// client sequences as a trial, without touching a store. Each client starts
// from an empty cache.
func Sweep(factories []cache.Factory, gen *workload.Generator, clients int, sizes []int) []HitRateResult {
	seqs := make([][]int, clients)
	for i := range seqs {
		seqs[i] = gen.Sequence(i)
	}
	return sweep(factories, seqs, sizes)
}

// Replay measures the hit rate of each policy at every size over a recorded
// trace.
func Replay(factories []cache.Factory, ops []int, sizes []int) []HitRateResult {
	return sweep(factories, [][]int{ops}, sizes)
}

func sweep(factories []cache.Factory, seqs [][]int, sizes []int) []HitRateResult {
	if len(sizes) == 0 {
		return nil
	}
	results := make([]HitRateResult, 0, len(factories))
	for _, factory := range factories {
		c := factory(sizes[0])
		name := c.Name()
		c.Close()

		rates := make(map[int]float64, len(sizes))
		for _, size := range sizes {
			rates[size] = runSequences(factory, seqs, size)
		}
		results = append(results, HitRateResult{Name: name, Rates: rates})
	}
	return results
}

func runSequences(factory cache.Factory, seqs [][]int, cacheSize int) float64 {
	c := factory(cacheSize)
	defer c.Close()
	c.SetQuiet(true)

	var hits, misses int64
	for _, ids := range seqs {
		c.Clear()
		for _, id := range ids {
			if _, ok := c.Get(id); ok {
				hits++
			} else {
				misses++
				c.Set(id, strconv.Itoa(id))
			}
		}
	}
	return cache.HitRate(hits, misses)
}
