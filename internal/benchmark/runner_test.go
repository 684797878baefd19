package benchmark

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/store"
	"github.com/tstromberg/policybench/internal/workload"
)

type countingStore struct {
	fetches atomic.Int64
	err     error
}

func (s *countingStore) Fetch(id int) (string, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "item", nil
}

func newGenerator(t *testing.T, requests int) *workload.Generator {
	t.Helper()
	cfg := workload.DefaultConfig()
	cfg.Requests = requests
	g, err := workload.New(cfg)
	require.NoError(t, err)
	return g
}

func coreFactories() []cache.Factory {
	return []cache.Factory{cache.NewFIFO, cache.NewLRU, cache.NewMRU, cache.NewTwoQueue}
}

func uniqueIDs(ids []int) int64 {
	seen := make(map[int]bool)
	for _, id := range ids {
		seen[id] = true
	}
	return int64(len(seen))
}

func TestRun_MeanLatencyFollowsStoreDelay(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps on every miss")
	}
	const delay = 5 * time.Millisecond
	gen := newGenerator(t, 60)
	r, err := NewRunner(Config{Capacity: 5, Clients: 1}, gen, store.NewSynthetic(1, 100, delay), nil)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), []cache.Factory{cache.NewLRU})
	require.NoError(t, err)
	res := report.Results[0]
	require.Positive(t, res.Misses)

	want := float64(delay) / float64(time.Millisecond) * float64(res.Misses) / float64(res.Accesses)
	assert.GreaterOrEqual(t, res.MeanLatencyMs, want, "every miss sleeps at least the delay")
	assert.Less(t, res.MeanLatencyMs, want*3, "hits add next to nothing")
}

func TestRun_CountsEveryAccess(t *testing.T) {
	gen := newGenerator(t, 120)
	st := &countingStore{}
	r, err := NewRunner(Config{Capacity: 10, Clients: 3}, gen, st, nil)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), coreFactories())
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	var misses int64
	for i, res := range report.Results {
		assert.Equal(t, []string{"fifo", "lru", "mru", "2q"}[i], res.Name)
		assert.Equal(t, int64(360), res.Accesses)
		assert.Equal(t, res.Accesses, res.Hits+res.Misses)
		assert.InDelta(t, cache.HitRate(res.Hits, res.Misses), res.HitRate, 1e-9)
		assert.GreaterOrEqual(t, res.MeanLatencyMs, 0.0)
		misses += res.Misses
	}
	assert.Equal(t, misses, st.fetches.Load(), "one fetch per miss")

	assert.Equal(t, int64(4*360), report.TotalAccesses)
	assert.Equal(t, 10, report.Capacity)
	assert.Equal(t, 3, report.Clients)
	assert.Equal(t, 120, report.Requests)
	assert.Equal(t, "positional", report.Mode)
	assert.Equal(t, []string{"uniform", "poisson", "hotspot"}, report.Distributions)
	assert.Equal(t, "LRU (Least Recently Used)", report.Results[1].Label)

	w, ok := Winner(report.Results)
	require.True(t, ok)
	assert.Equal(t, w.Name, report.Winner)
}

func TestRun_ClearsBetweenClients(t *testing.T) {
	gen := newGenerator(t, 200)
	r, err := NewRunner(Config{Capacity: 100, Clients: 3}, gen, &countingStore{}, nil)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), []cache.Factory{cache.NewLRU})
	require.NoError(t, err)

	// With room for every id, each client misses exactly once per distinct id.
	var want int64
	for client := range 3 {
		want += uniqueIDs(gen.Sequence(client))
	}
	assert.Equal(t, want, report.Results[0].Misses)
}

func TestRun_FailedFetchIsCachedEmpty(t *testing.T) {
	gen := newGenerator(t, 200)
	st := &countingStore{err: store.ErrNotFound}
	r, err := NewRunner(Config{Capacity: 100, Clients: 1}, gen, st, nil)
	require.NoError(t, err)

	report, err := r.Run(context.Background(), []cache.Factory{cache.NewFIFO})
	require.NoError(t, err)

	unique := uniqueIDs(gen.Sequence(0))
	assert.Equal(t, unique, report.Results[0].Misses)
	assert.Equal(t, unique, st.fetches.Load())

	st = &countingStore{err: errors.New("disk on fire")}
	r, err = NewRunner(Config{Capacity: 100, Clients: 1}, gen, st, nil)
	require.NoError(t, err)
	report, err = r.Run(context.Background(), []cache.Factory{cache.NewFIFO})
	require.NoError(t, err, "store failures are not fatal")
	assert.Equal(t, unique, report.Results[0].Misses)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	gen := newGenerator(t, 150)

	seq, err := NewRunner(Config{Capacity: 8, Clients: 4}, gen, &countingStore{}, nil)
	require.NoError(t, err)
	par, err := NewRunner(Config{Capacity: 8, Clients: 4, Parallel: true}, gen, &countingStore{}, nil)
	require.NoError(t, err)

	want, err := seq.Run(context.Background(), coreFactories())
	require.NoError(t, err)
	got, err := par.Run(context.Background(), coreFactories())
	require.NoError(t, err)

	require.Len(t, got.Results, len(want.Results))
	for i := range want.Results {
		assert.Equal(t, want.Results[i].Name, got.Results[i].Name)
		assert.Equal(t, want.Results[i].Hits, got.Results[i].Hits)
		assert.Equal(t, want.Results[i].Misses, got.Results[i].Misses)
	}
	assert.Equal(t, want.Winner, got.Winner)
}

func TestRun_Cancelled(t *testing.T) {
	r, err := NewRunner(DefaultConfig(), newGenerator(t, 10), &countingStore{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, coreFactories())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_Validates(t *testing.T) {
	gen := newGenerator(t, 10)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero capacity", Config{Capacity: 0, Clients: 1}},
		{"zero clients", Config{Capacity: 1, Clients: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRunner(tc.cfg, gen, &countingStore{}, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := NewRunner(DefaultConfig(), nil, &countingStore{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{"highest hit rate", []Result{{Name: "fifo", HitRate: 20}, {Name: "lru", HitRate: 31.5}, {Name: "mru", HitRate: 9}}, "lru"},
		{"tie goes to first", []Result{{Name: "fifo", HitRate: 40}, {Name: "lru", HitRate: 40}}, "fifo"},
		{"latency ignored", []Result{{Name: "fifo", HitRate: 10, MeanLatencyMs: 1}, {Name: "2q", HitRate: 11, MeanLatencyMs: 90}}, "2q"},
		{"zero accesses", []Result{{Name: "fifo"}, {Name: "lru"}}, "fifo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := Winner(tc.results)
			require.True(t, ok)
			assert.Equal(t, tc.want, w.Name)
		})
	}

	_, ok := Winner(nil)
	assert.False(t, ok)
}
