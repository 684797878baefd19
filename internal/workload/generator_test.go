package workload

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_DeterministicPerSeedAndClient(t *testing.T) {
	for _, mode := range []Mode{Positional, Random} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode
			cfg.Distributions = []Distribution{Uniform, Poisson, Hotspot, Zipf}

			g1, err := New(cfg)
			require.NoError(t, err)
			g2, err := New(cfg)
			require.NoError(t, err)

			assert.Equal(t, g1.Sequence(0), g2.Sequence(0))
			assert.Equal(t, g1.Sequence(3), g1.Sequence(3), "regenerating a client repeats it")
			assert.NotEqual(t, g1.Sequence(0), g1.Sequence(1))

			cfg.Seed++
			g3, err := New(cfg)
			require.NoError(t, err)
			assert.NotEqual(t, g1.Sequence(0), g3.Sequence(0))
		})
	}
}

func TestSequence_StaysInRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Requests = 3000
	cfg.Distributions = []Distribution{Uniform, Poisson, Hotspot, Zipf}
	cfg.PoissonMean = 5000 // far beyond Max, exercises clamping and chunking

	for _, mode := range []Mode{Positional, Random} {
		cfg.Mode = mode
		g, err := New(cfg)
		require.NoError(t, err)

		ids := g.Sequence(1)
		require.Len(t, ids, cfg.Requests)
		for _, id := range ids {
			require.GreaterOrEqual(t, id, cfg.Min)
			require.LessOrEqual(t, id, cfg.Max)
		}
	}
}

func TestPlan_SplitsIntoContiguousSegments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Requests = 200
	g, err := New(cfg)
	require.NoError(t, err)

	plan := g.Plan()
	require.Len(t, plan, 3)
	assert.Equal(t, Segment{Distribution: Uniform, Start: 0, Len: 66}, plan[0])
	assert.Equal(t, Segment{Distribution: Poisson, Start: 66, Len: 66}, plan[1])
	assert.Equal(t, Segment{Distribution: Hotspot, Start: 132, Len: 68}, plan[2])

	cfg.Requests = 2
	g, err = New(cfg)
	require.NoError(t, err)
	plan = g.Plan()
	assert.Equal(t, []int{0, 0, 2}, []int{plan[0].Len, plan[1].Len, plan[2].Len})
	assert.Len(t, g.Sequence(0), 2)

	cfg.Mode = Random
	g, err = New(cfg)
	require.NoError(t, err)
	assert.Nil(t, g.Plan())
}

func TestPositional_SegmentsFollowTheirDistribution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Requests = 3000
	cfg.Distributions = []Distribution{Poisson, Hotspot}
	cfg.HotProbability = 1
	g, err := New(cfg)
	require.NoError(t, err)

	ids := g.Sequence(0)
	plan := g.Plan()

	var sum float64
	poissonPart := ids[plan[0].Start : plan[0].Start+plan[0].Len]
	for _, id := range poissonPart {
		sum += float64(id)
	}
	assert.InDelta(t, cfg.PoissonMean, sum/float64(len(poissonPart)), 1.5)

	for _, id := range ids[plan[1].Start:] {
		require.GreaterOrEqual(t, id, cfg.HotMin)
		require.LessOrEqual(t, id, cfg.HotMax)
	}
}

func TestHotspot_Probability(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Requests = 20000
	cfg.Distributions = []Distribution{Hotspot}
	g, err := New(cfg)
	require.NoError(t, err)

	hot := 0
	for _, id := range g.Sequence(0) {
		if id >= cfg.HotMin && id <= cfg.HotMax {
			hot++
		}
	}
	// 43% direct hits plus the uniform fallback landing in the 11-id window.
	want := cfg.HotProbability + (1-cfg.HotProbability)*11.0/100.0
	assert.InDelta(t, want, float64(hot)/float64(cfg.Requests), 0.02)
}

func TestZipf_SkewsTowardMin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Requests = 10000
	cfg.Distributions = []Distribution{Zipf}
	g, err := New(cfg)
	require.NoError(t, err)

	counts := make(map[int]int)
	for _, id := range g.Sequence(0) {
		counts[id]++
	}
	assert.Greater(t, counts[cfg.Min], counts[cfg.Max])
}

func TestPoisson_Mean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, mean := range []float64{0, 3, 50, 1200} {
		var sum float64
		const n = 4000
		for range n {
			sum += float64(poisson(rng, mean))
		}
		got := sum / n
		assert.InDelta(t, mean, got, 4*math.Sqrt(mean/n)+0.01, "mean %v", mean)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min", func(c *Config) { c.Min = -1 }},
		{"max below min", func(c *Config) { c.Max = 0 }},
		{"no requests", func(c *Config) { c.Requests = 0 }},
		{"no distributions", func(c *Config) { c.Distributions = nil }},
		{"unknown distribution", func(c *Config) { c.Distributions = []Distribution{"gaussian"} }},
		{"unknown mode", func(c *Config) { c.Mode = "interleaved" }},
		{"hot range outside ids", func(c *Config) { c.HotMax = 500 }},
		{"hot probability", func(c *Config) { c.HotProbability = 1.5 }},
		{"negative poisson mean", func(c *Config) { c.PoissonMean = -1 }},
		{"zipf theta", func(c *Config) {
			c.Distributions = []Distribution{Zipf}
			c.ZipfTheta = 1
		}},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"uniform", "poisson", "hotspot"}, Names(DefaultConfig().Distributions))
}
