package benchmark

import (
	"strconv"
	"testing"

	"github.com/tstromberg/policybench/internal/cache"
)

// LatencyResult holds single-threaded latency results for a cache.
type LatencyResult struct {
	Name           string  `json:"name"`
	GetNsOp        float64 `json:"getNsOp"`      // nanoseconds per Get operation
	SetNsOp        float64 `json:"setNsOp"`      // nanoseconds per Set operation (no eviction)
	SetEvictNsOp   float64 `json:"setEvictNsOp"` // nanoseconds per Set with eviction (20x keyspace)
	GetAllocs      int64   `json:"getAllocs"`
	SetAllocs      int64   `json:"setAllocs"`
	SetEvictAllocs int64   `json:"setEvictAllocs"`
}

const latencyCacheSize = 10000

// latencyContent is the payload stored by the microbenchmarks.
var latencyContent = "content"

// RunLatency benchmarks single-threaded Get/Set latency for each policy,
// without any store in the loop.
func RunLatency(factories []cache.Factory) []LatencyResult {
	results := make([]LatencyResult, 0, len(factories))

	ids := make([]int, latencyCacheSize)
	for i := range latencyCacheSize {
		ids[i] = i
	}
	evictIDs := make([]int, latencyCacheSize*20)
	for i := range len(evictIDs) {
		evictIDs[i] = i
	}

	for _, factory := range factories {
		c := factory(latencyCacheSize)
		name := c.Name()
		c.Close()

		getResult := testing.Benchmark(func(b *testing.B) {
			benchGet(b, factory, ids)
		})
		setResult := testing.Benchmark(func(b *testing.B) {
			benchSet(b, factory, ids)
		})
		setEvictResult := testing.Benchmark(func(b *testing.B) {
			benchSetEvict(b, factory, evictIDs)
		})

		results = append(results, LatencyResult{
			Name:           name,
			GetNsOp:        float64(getResult.NsPerOp()),
			SetNsOp:        float64(setResult.NsPerOp()),
			SetEvictNsOp:   float64(setEvictResult.NsPerOp()),
			GetAllocs:      getResult.AllocsPerOp(),
			SetAllocs:      setResult.AllocsPerOp(),
			SetEvictAllocs: setEvictResult.AllocsPerOp(),
		})
	}

	return results
}

func newQuiet(factory cache.Factory) cache.Cache {
	c := factory(latencyCacheSize)
	c.SetQuiet(true)
	return c
}

func benchGet(b *testing.B, factory cache.Factory, ids []int) {
	c := newQuiet(factory)
	defer c.Close()

	for _, id := range ids {
		c.Set(id, strconv.Itoa(id))
	}

	b.ResetTimer()
	for i := range b.N {
		c.Get(ids[i%latencyCacheSize])
	}
}

func benchSet(b *testing.B, factory cache.Factory, ids []int) {
	c := newQuiet(factory)
	defer c.Close()

	b.ResetTimer()
	for i := range b.N {
		c.Set(ids[i%latencyCacheSize], latencyContent)
	}
}

func benchSetEvict(b *testing.B, factory cache.Factory, ids []int) {
	c := newQuiet(factory)
	defer c.Close()

	keySpace := len(ids)
	b.ResetTimer()
	for i := range b.N {
		c.Set(ids[i%keySpace], latencyContent)
	}
}
