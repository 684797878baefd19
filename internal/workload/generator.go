// Package workload generates per-client item access sequences.
package workload

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidConfig is returned for workload settings that cannot produce ids.
var ErrInvalidConfig = errors.New("invalid workload config")

// Distribution names an id distribution.
type Distribution string

const (
	// Uniform draws ids uniformly over [Min, Max].
	Uniform Distribution = "uniform"
	// Poisson draws ids from Poisson(PoissonMean) clamped into [Min, Max].
	Poisson Distribution = "poisson"
	// Hotspot draws from [HotMin, HotMax] with HotProbability, else uniformly.
	Hotspot Distribution = "hotspot"
	// Zipf draws Zipf-skewed ids starting at Min.
	Zipf Distribution = "zipf"
)

// Mode selects how distributions are blended within one sequence.
type Mode string

const (
	// Positional splits each sequence into contiguous, near-equal segments,
	// one per distribution, in the configured order.
	Positional Mode = "positional"
	// Random picks a distribution uniformly at random for every request.
	Random Mode = "random"
)

// Config describes the id space and the access mix.
type Config struct {
	Min            int
	Max            int
	Requests       int
	Distributions  []Distribution
	Mode           Mode
	PoissonMean    float64
	HotMin         int
	HotMax         int
	HotProbability float64
	ZipfTheta      float64
	Seed           uint64
}

// DefaultConfig mirrors the reading-room simulation: 100 items, 200 requests
// per client, a third each of uniform, Poisson(50) and 30–40 hotspot access.
func DefaultConfig() Config {
	return Config{
		Min:            1,
		Max:            100,
		Requests:       200,
		Distributions:  []Distribution{Uniform, Poisson, Hotspot},
		Mode:           Positional,
		PoissonMean:    50,
		HotMin:         30,
		HotMax:         40,
		HotProbability: 0.43,
		ZipfTheta:      0.8,
		Seed:           42,
	}
}

// Validate reports the first setting that cannot be honored.
func (c Config) Validate() error {
	if c.Min < 0 {
		return fmt.Errorf("%w: min id %d is negative", ErrInvalidConfig, c.Min)
	}
	if c.Max < c.Min {
		return fmt.Errorf("%w: max id %d below min id %d", ErrInvalidConfig, c.Max, c.Min)
	}
	if c.Requests < 1 {
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	}
	if len(c.Distributions) == 0 {
		return fmt.Errorf("%w: no distributions", ErrInvalidConfig)
	}
	if c.Mode != Positional && c.Mode != Random {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	for _, d := range c.Distributions {
		switch d {
		case Uniform:
		case Poisson:
			if c.PoissonMean < 0 || math.IsNaN(c.PoissonMean) {
				return fmt.Errorf("%w: poisson mean %v", ErrInvalidConfig, c.PoissonMean)
			}
		case Hotspot:
			if c.HotMin < c.Min || c.HotMax > c.Max || c.HotMin > c.HotMax {
				return fmt.Errorf("%w: hot range %d-%d outside %d-%d", ErrInvalidConfig, c.HotMin, c.HotMax, c.Min, c.Max)
			}
			if c.HotProbability < 0 || c.HotProbability > 1 {
				return fmt.Errorf("%w: hot probability %v", ErrInvalidConfig, c.HotProbability)
			}
		case Zipf:
			if c.ZipfTheta <= 0 || c.ZipfTheta >= 1 {
				return fmt.Errorf("%w: zipf theta %v must be in (0, 1)", ErrInvalidConfig, c.ZipfTheta)
			}
		default:
			return fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfig, d)
		}
	}
	return nil
}

// Generator produces access sequences. It holds no random state: every
// sequence is rebuilt from the seed, so any client can be regenerated.
type Generator struct {
	cfg  Config
	zipf *zipf
}

// New validates cfg and returns a generator for it.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg}
	for _, d := range cfg.Distributions {
		if d == Zipf {
			g.zipf = newZipf(cfg.Max-cfg.Min+1, cfg.ZipfTheta)
		}
	}
	return g, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Segment is a contiguous run of requests drawn from one distribution.
type Segment struct {
	Distribution Distribution
	Start        int
	Len          int
}

// Plan returns the positional layout of a sequence. The last segment takes
// the remainder when Requests does not divide evenly, so 200 requests over
// three distributions split 66/66/68. In Random mode it returns nil.
func (g *Generator) Plan() []Segment {
	if g.cfg.Mode != Positional {
		return nil
	}
	k := len(g.cfg.Distributions)
	base := g.cfg.Requests / k
	plan := make([]Segment, 0, k)
	start := 0
	for i, d := range g.cfg.Distributions {
		n := base
		if i == k-1 {
			n = g.cfg.Requests - start
		}
		plan = append(plan, Segment{Distribution: d, Start: start, Len: n})
		start += n
	}
	return plan
}

// Sequence returns the ids requested by client. The same seed and client
// always yield the same sequence.
func (g *Generator) Sequence(client int) []int {
	rng := rand.New(rand.NewPCG(g.cfg.Seed, uint64(client))) //nolint:gosec // client numbers are non-negative
	ids := make([]int, 0, g.cfg.Requests)

	if g.cfg.Mode == Random {
		for range g.cfg.Requests {
			d := g.cfg.Distributions[rng.IntN(len(g.cfg.Distributions))]
			ids = append(ids, g.draw(rng, d))
		}
		return ids
	}

	for _, seg := range g.Plan() {
		for range seg.Len {
			ids = append(ids, g.draw(rng, seg.Distribution))
		}
	}
	return ids
}

func (g *Generator) draw(rng *rand.Rand, d Distribution) int {
	switch d {
	case Poisson:
		return g.clamp(poisson(rng, g.cfg.PoissonMean))
	case Hotspot:
		if rng.Float64() < g.cfg.HotProbability {
			return g.cfg.HotMin + rng.IntN(g.cfg.HotMax-g.cfg.HotMin+1)
		}
		return g.uniform(rng)
	case Zipf:
		return g.cfg.Min + g.zipf.next(rng)
	default:
		return g.uniform(rng)
	}
}

func (g *Generator) uniform(rng *rand.Rand) int {
	return g.cfg.Min + rng.IntN(g.cfg.Max-g.cfg.Min+1)
}

func (g *Generator) clamp(id int) int {
	return min(max(id, g.cfg.Min), g.cfg.Max)
}

// poissonChunk bounds each Knuth draw so exp(-mean) stays representable.
const poissonChunk = 500

// poisson draws from Poisson(mean) by summing Knuth draws over chunks of
// the mean; the sum of independent Poisson variables is Poisson.
func poisson(rng *rand.Rand, mean float64) int {
	n := 0
	for mean > poissonChunk {
		n += knuth(rng, poissonChunk)
		mean -= poissonChunk
	}
	return n + knuth(rng, mean)
}

func knuth(rng *rand.Rand, mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	for p := rng.Float64(); p > limit; p *= rng.Float64() {
		k++
	}
	return k
}

// Names returns the distribution names as strings, for reports.
func Names(ds []Distribution) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d)
	}
	return names
}
