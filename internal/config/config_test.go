package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/policybench/internal/store"
	"github.com/tstromberg/policybench/internal/workload"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policybench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 3, cfg.Clients)
	assert.Equal(t, workload.DefaultConfig(), cfg.WorkloadConfig())
	assert.Equal(t, 100*time.Millisecond, cfg.Store.Delay)
	assert.IsType(t, &store.Synthetic{}, cfg.NewStore())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
capacity: 25
parallel: true
policies: [lru, 2q]
suites: [trial, sweep]
workload:
  mode: random
  distributions: [uniform, zipf]
  seed: 7
store:
  dir: texts
  delay: 5ms
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Capacity)
	assert.Equal(t, 3, cfg.Clients, "unset keys keep defaults")
	assert.True(t, cfg.Parallel)
	assert.Equal(t, []string{"lru", "2q"}, cfg.Policies)
	assert.Equal(t, []string{"trial", "sweep"}, cfg.Suites)

	w := cfg.WorkloadConfig()
	assert.Equal(t, workload.Random, w.Mode)
	assert.Equal(t, []workload.Distribution{workload.Uniform, workload.Zipf}, w.Distributions)
	assert.Equal(t, uint64(7), w.Seed)
	assert.Equal(t, 200, w.Requests)

	assert.Equal(t, 5*time.Millisecond, cfg.Store.Delay)
	assert.IsType(t, &store.Dir{}, cfg.NewStore())
	assert.True(t, cfg.Benchmark().Parallel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "capacity: [1, 2"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "capacity: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero clients", func(c *Config) { c.Clients = 0 }},
		{"bad workload", func(c *Config) { c.Workload.MaxID = 0 }},
		{"unknown mode", func(c *Config) { c.Workload.Mode = "sometimes" }},
		{"unknown policy", func(c *Config) { c.Policies = []string{"lfu-9000"} }},
		{"unknown suite", func(c *Config) { c.Suites = []string{"throughput"} }},
		{"bad size", func(c *Config) { c.Sizes = []int{10, 0} }},
		{"negative delay", func(c *Config) { c.Store.Delay = -time.Second }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Policies = []string{"ALL"}
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"
	log := cfg.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown", "policy", "lru")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"policy":"lru"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}
