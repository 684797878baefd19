package benchmark

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
)

// MemoryResult holds memory usage results for a cache.
type MemoryResult struct {
	Name          string `json:"name"`
	Items         int    `json:"items"`
	Bytes         uint64 `json:"bytes"`
	BytesPerItem  int64  `json:"bytesPerItem"`
	BaselineBytes uint64 `json:"baselineBytes"`
}

type memOutput struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Items int    `json:"items"`
	Bytes uint64 `json:"bytes"`
}

// DefaultMemoryCapacity is the cache size for memory benchmarks.
const DefaultMemoryCapacity = 32768

// DefaultValueSize is the item content size in bytes.
const DefaultValueSize = 1024

// RunMemory measures the heap held by each named policy when filled to
// capacity. Every policy runs in its own process built from ./cmd/mem.
func RunMemory(names []string, capacity, valSize int) ([]MemoryResult, error) {
	dir, err := os.MkdirTemp("", "policybench-mem")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // best-effort cleanup

	binPath := filepath.Join(dir, "mem-benchmark")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/mem") //nolint:noctx // trusted command
	if out, err := buildCmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("build mem benchmark: %w\n%s", err, out)
	}

	results := make([]MemoryResult, 0, len(names))
	for _, name := range names {
		res, err := runMemBenchmark(binPath, name, capacity, valSize)
		if err != nil {
			slog.Warn("memory benchmark failed", "policy", name, "error", err)
			continue
		}
		results = append(results, res)
	}

	baseline, err := runMemBenchmark(binPath, "baseline", capacity, valSize)
	if err != nil {
		return nil, fmt.Errorf("baseline benchmark: %w", err)
	}
	applyBaseline(results, baseline.Bytes)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Bytes < results[j].Bytes
	})

	return results, nil
}

// applyBaseline fills in per-item overhead relative to a plain map holding
// the same items.
func applyBaseline(results []MemoryResult, baseline uint64) {
	for i := range results {
		results[i].BaselineBytes = baseline
		if results[i].Items > 0 {
			diff := int64(results[i].Bytes) - int64(baseline) //nolint:gosec // heap sizes fit in int64
			results[i].BytesPerItem = diff / int64(results[i].Items)
		}
	}
}

func runMemBenchmark(binPath, name string, capacity, valSize int) (MemoryResult, error) {
	cmd := exec.Command(binPath, //nolint:gosec,noctx // trusted binary path
		"-policy", name,
		"-cap", strconv.Itoa(capacity),
		"-valSize", strconv.Itoa(valSize),
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return MemoryResult{}, fmt.Errorf("run %s: %w\n%s", name, err, out)
	}
	return parseMemOutput(name, out)
}

func parseMemOutput(name string, out []byte) (MemoryResult, error) {
	var res memOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return MemoryResult{}, fmt.Errorf("parse output for %s: %w\n%s", name, err, out)
	}
	if res.Error != "" {
		return MemoryResult{}, fmt.Errorf("%s: %s", name, res.Error)
	}
	return MemoryResult{
		Name:  res.Name,
		Items: res.Items,
		Bytes: res.Bytes,
	}, nil
}
