// Package benchmark implements cache benchmark runners.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/store"
	"github.com/tstromberg/policybench/internal/workload"
)

// ErrInvalidConfig is returned for trial settings that cannot run.
var ErrInvalidConfig = errors.New("invalid benchmark config")

// Config controls a trial.
type Config struct {
	Capacity int
	Clients  int
	// Parallel runs each policy's trial in its own goroutine.
	Parallel bool
}

// DefaultConfig matches the reading-room simulation: 10 slots, 3 readers.
func DefaultConfig() Config {
	return Config{Capacity: 10, Clients: 3}
}

// Validate reports settings that cannot run.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	}
	if c.Clients < 1 {
		return fmt.Errorf("%w: clients must be positive", ErrInvalidConfig)
	}
	return nil
}

// Result holds one policy's trial outcome.
type Result struct {
	Name          string  `json:"name"`
	Label         string  `json:"label"`
	MeanLatencyMs float64 `json:"meanLatencyMs"`
	HitRate       float64 `json:"hitRate"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Accesses      int64   `json:"accesses"`
}

// Report is the outcome of a full trial across policies.
type Report struct {
	TotalAccesses int64    `json:"totalAccesses"`
	Capacity      int      `json:"capacity"`
	Clients       int      `json:"clients"`
	Requests      int      `json:"requests"`
	Seed          uint64   `json:"seed"`
	Mode          string   `json:"mode"`
	Distributions []string `json:"distributions"`
	Results       []Result `json:"results"`
	Winner        string   `json:"winner"`
}

// Runner drives generated workloads through caches in front of a store.
type Runner struct {
	cfg   Config
	gen   *workload.Generator
	store store.Store
	log   *slog.Logger
}

// NewRunner returns a runner. A nil logger uses slog.Default.
func NewRunner(cfg Config, gen *workload.Generator, st store.Store, log *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil || st == nil {
		return nil, fmt.Errorf("%w: generator and store are required", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, gen: gen, store: st, log: log}, nil
}

// Run benchmarks each factory in order and picks the winner. Cancelling ctx
// stops before the next client starts.
func (r *Runner) Run(ctx context.Context, factories []cache.Factory) (Report, error) {
	wcfg := r.gen.Config()
	report := Report{
		Capacity:      r.cfg.Capacity,
		Clients:       r.cfg.Clients,
		Requests:      wcfg.Requests,
		Seed:          wcfg.Seed,
		Mode:          string(wcfg.Mode),
		Distributions: workload.Names(wcfg.Distributions),
		Results:       make([]Result, len(factories)),
	}

	if r.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, factory := range factories {
			g.Go(func() error {
				res, err := r.trial(gctx, factory)
				report.Results[i] = res
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}
	} else {
		for i, factory := range factories {
			res, err := r.trial(ctx, factory)
			if err != nil {
				return report, err
			}
			report.Results[i] = res
		}
	}

	for _, res := range report.Results {
		report.TotalAccesses += res.Accesses
	}
	if w, ok := Winner(report.Results); ok {
		report.Winner = w.Name
	}
	return report, nil
}

// trial runs every client against a fresh instance from factory.
func (r *Runner) trial(ctx context.Context, factory cache.Factory) (Result, error) {
	c := factory(r.cfg.Capacity)
	defer c.Close()
	c.SetQuiet(true)

	res := Result{Name: c.Name(), Label: cache.Label(c.Name())}
	log := r.log.With("policy", res.Name)
	var elapsed time.Duration

	for client := range r.cfg.Clients {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("trial %s: %w", res.Name, err)
		}
		c.Clear()
		for _, id := range r.gen.Sequence(client) {
			start := time.Now()
			if _, ok := c.Get(id); !ok {
				c.Set(id, r.fetch(log, id))
			}
			elapsed += time.Since(start)
		}
		st := c.Stats()
		res.Hits += st.Hits
		res.Misses += st.Misses
		log.Debug("client done", "client", client, "hits", st.Hits, "misses", st.Misses)
	}

	res.Accesses = res.Hits + res.Misses
	res.HitRate = cache.HitRate(res.Hits, res.Misses)
	if res.Accesses > 0 {
		res.MeanLatencyMs = float64(elapsed) / float64(time.Millisecond) / float64(res.Accesses)
	}
	log.Info("trial done", "hit_rate", res.HitRate, "mean_latency_ms", res.MeanLatencyMs)
	return res, nil
}

// fetch loads id from the store. A failed fetch yields empty content, which
// is cached like any other.
func (r *Runner) fetch(log *slog.Logger, id int) string {
	content, err := r.store.Fetch(id)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrEmpty):
		log.Debug("caching empty item", "id", id, "error", err)
	default:
		log.Warn("fetch failed", "id", id, "error", err)
	}
	return content
}

// Winner returns the result with the highest hit rate. Ties go to the
// earliest result.
func Winner(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.HitRate > best.HitRate {
			best = r
		}
	}
	return best, true
}
