// Package output provides result formatting and export.
package output

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/tstromberg/policybench/internal/benchmark"
)

// Results holds every suite's output for one run.
type Results struct {
	RunID       string            `json:"runId"`
	Timestamp   string            `json:"timestamp"`
	MachineInfo MachineInfo       `json:"machineInfo"`
	Trial       *benchmark.Report `json:"trial,omitempty"`
	HitRate     *HitRateData      `json:"hitRate,omitempty"`
	Latency     *LatencyData      `json:"latency,omitempty"`
	Memory      *MemoryData       `json:"memory,omitempty"`
	Rankings    []Ranking         `json:"rankings,omitempty"`
	MedalTable  *MedalTable       `json:"medalTable,omitempty"`
}

// NewResults starts a result set for a run of commandLine.
func NewResults(commandLine string) Results {
	return Results{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
		MachineInfo: MachineInfo{
			OS:          runtime.GOOS,
			Arch:        runtime.GOARCH,
			NumCPU:      runtime.NumCPU(),
			GoVersion:   runtime.Version(),
			CommandLine: commandLine,
		},
	}
}

// MachineInfo holds information about the benchmark environment.
type MachineInfo struct {
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	NumCPU      int    `json:"numCpu"`
	GoVersion   string `json:"goVersion"`
	CommandLine string `json:"commandLine"`
}

// Ranking represents an overall ranking entry.
type Ranking struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Gold   int     `json:"gold"`
	Silver int     `json:"silver"`
	Bronze int     `json:"bronze"`
}

// BenchmarkMedal represents a single benchmark's top 3 placements.
// Multiple names in a slot indicate a tie.
type BenchmarkMedal struct {
	Name   string   `json:"name"`
	Gold   []string `json:"gold"`
	Silver []string `json:"silver"`
	Bronze []string `json:"bronze"`
}

// CategoryMedals holds medals for a benchmark category with its winner.
type CategoryMedals struct {
	Name       string           `json:"name"`
	Benchmarks []BenchmarkMedal `json:"benchmarks"`
	Rankings   []Ranking        `json:"rankings"`
}

// MedalTable holds all benchmark medals organized by category.
type MedalTable struct {
	Categories []CategoryMedals `json:"categories"`
}

// HitRateData holds capacity sweep results.
type HitRateData struct {
	Sizes     []int                     `json:"sizes"`
	Generated []benchmark.HitRateResult `json:"generated,omitempty"`
	Replay    []benchmark.HitRateResult `json:"replay,omitempty"`
	TraceInfo string                    `json:"traceInfo,omitempty"`
}

// LatencyData holds per-operation latency results.
type LatencyData struct {
	Results []benchmark.LatencyResult `json:"results"`
}

// MemoryData holds memory benchmark data.
type MemoryData struct {
	Results  []benchmark.MemoryResult `json:"results"`
	Capacity int                      `json:"capacity"`
	ValSize  int                      `json:"valSize"`
}
