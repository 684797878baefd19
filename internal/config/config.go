// Package config loads policybench settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tstromberg/policybench/internal/benchmark"
	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/store"
	"github.com/tstromberg/policybench/internal/workload"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Suites that main knows how to run.
var knownSuites = map[string]bool{
	"trial": true, "sweep": true, "replay": true, "latency": true, "memory": true,
}

// Config is the full set of run settings.
type Config struct {
	Capacity int      `yaml:"capacity"`
	Clients  int      `yaml:"clients"`
	Parallel bool     `yaml:"parallel"`
	Policies []string `yaml:"policies"`
	Suites   []string `yaml:"suites"`
	Sizes    []int    `yaml:"sizes"`
	Trace    string   `yaml:"trace"`

	Workload WorkloadConfig `yaml:"workload"`
	Store    StoreConfig    `yaml:"store"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// WorkloadConfig describes the generated access mix.
type WorkloadConfig struct {
	MinID          int      `yaml:"min_id"`
	MaxID          int      `yaml:"max_id"`
	Requests       int      `yaml:"requests"`
	Distributions  []string `yaml:"distributions"`
	Mode           string   `yaml:"mode"`
	PoissonMean    float64  `yaml:"poisson_mean"`
	HotMin         int      `yaml:"hot_min"`
	HotMax         int      `yaml:"hot_max"`
	HotProbability float64  `yaml:"hot_probability"`
	ZipfTheta      float64  `yaml:"zipf_theta"`
	Seed           uint64   `yaml:"seed"`
}

// StoreConfig selects the backing store. An empty Dir uses synthetic items.
type StoreConfig struct {
	Dir   string        `yaml:"dir"`
	Delay time.Duration `yaml:"delay"`
}

// OutputConfig names the export files; empty paths are skipped.
type OutputConfig struct {
	JSON     string `yaml:"json"`
	Markdown string `yaml:"markdown"`
	HTML     string `yaml:"html"`
	Summary  string `yaml:"summary"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings of the reading-room simulation.
func Default() Config {
	w := workload.DefaultConfig()
	b := benchmark.DefaultConfig()
	return Config{
		Capacity: b.Capacity,
		Clients:  b.Clients,
		Suites:   []string{"trial"},
		Sizes:    append([]int(nil), benchmark.DefaultCacheSizes...),
		Workload: WorkloadConfig{
			MinID:          w.Min,
			MaxID:          w.Max,
			Requests:       w.Requests,
			Distributions:  workload.Names(w.Distributions),
			Mode:           string(w.Mode),
			PoissonMean:    w.PoissonMean,
			HotMin:         w.HotMin,
			HotMax:         w.HotMax,
			HotProbability: w.HotProbability,
			ZipfTheta:      w.ZipfTheta,
			Seed:           w.Seed,
		},
		Store: StoreConfig{Delay: store.DefaultDelay},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot be honored.
func (c Config) Validate() error {
	if err := c.Benchmark().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.WorkloadConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, p := range c.Policies {
		if strings.EqualFold(p, "all") {
			continue
		}
		if _, err := cache.Lookup(p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, s := range c.Suites {
		if !knownSuites[s] {
			return fmt.Errorf("%w: unknown suite %q", ErrInvalidConfig, s)
		}
	}
	for _, n := range c.Sizes {
		if n < 1 {
			return fmt.Errorf("%w: cache size %d must be positive", ErrInvalidConfig, n)
		}
	}
	if c.Store.Delay < 0 {
		return fmt.Errorf("%w: negative store delay", ErrInvalidConfig)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Benchmark returns the trial settings.
func (c Config) Benchmark() benchmark.Config {
	return benchmark.Config{Capacity: c.Capacity, Clients: c.Clients, Parallel: c.Parallel}
}

// WorkloadConfig returns the generator settings.
func (c Config) WorkloadConfig() workload.Config {
	w := c.Workload
	ds := make([]workload.Distribution, len(w.Distributions))
	for i, d := range w.Distributions {
		ds[i] = workload.Distribution(strings.ToLower(d))
	}
	return workload.Config{
		Min:            w.MinID,
		Max:            w.MaxID,
		Requests:       w.Requests,
		Distributions:  ds,
		Mode:           workload.Mode(strings.ToLower(w.Mode)),
		PoissonMean:    w.PoissonMean,
		HotMin:         w.HotMin,
		HotMax:         w.HotMax,
		HotProbability: w.HotProbability,
		ZipfTheta:      w.ZipfTheta,
		Seed:           w.Seed,
	}
}

// NewStore builds the configured backing store.
func (c Config) NewStore() store.Store {
	if c.Store.Dir == "" {
		return store.NewSynthetic(c.Workload.MinID, c.Workload.MaxID, c.Store.Delay)
	}
	return store.NewDir(c.Store.Dir, c.Workload.MinID, c.Workload.MaxID, c.Store.Delay)
}

// NewLogger returns a logger writing to w in the configured format.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(c.Log.Level)}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
