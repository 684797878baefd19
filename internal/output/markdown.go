package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tstromberg/policybench/internal/benchmark"
	"github.com/tstromberg/policybench/internal/cache"
)

// WriteMarkdown writes benchmark results to a Markdown file.
func WriteMarkdown(filename string, results Results) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	writeMarkdown(f, results)
	return f.Close()
}

func writeMarkdown(out io.Writer, results Results) {
	w := func(format string, args ...any) {
		fmt.Fprintf(out, format, args...) //nolint:errcheck // surfaced by Close
	}

	w("# policybench Results\n\n")
	w("```\n")
	w("Run: %s\n", results.RunID)
	w("Command: %s\n", results.MachineInfo.CommandLine)
	w("Environment: %s/%s, %d CPUs, %s\n", results.MachineInfo.OS, results.MachineInfo.Arch, results.MachineInfo.NumCPU, results.MachineInfo.GoVersion)
	w("```\n\n")

	if results.Trial != nil {
		writeTrialMarkdown(w, results.Trial)
	}

	if results.HitRate != nil {
		w("## Hit Rate Sweep\n\n")
		writeHitRateMarkdown(w, "Generated Workload", results.HitRate.Generated, results.HitRate.Sizes)
		if results.HitRate.TraceInfo != "" && len(results.HitRate.Replay) > 0 {
			w("Trace: %s\n\n", results.HitRate.TraceInfo)
		}
		writeHitRateMarkdown(w, "Trace Replay", results.HitRate.Replay, results.HitRate.Sizes)
	}

	if results.Latency != nil {
		w("## Latency Benchmarks\n\n")
		writeLatencyMarkdown(w, results.Latency.Results)
	}

	if results.Memory != nil && len(results.Memory.Results) > 0 {
		w("## Memory Benchmarks\n\n")
		writeMemoryMarkdown(w, results.Memory.Results)
	}

	if len(results.Rankings) > 0 {
		w("## Overall Rankings\n\n")
		w("| Rank | Policy        | Score | Gold | Silver | Bronze |\n")
		w("|------|---------------|-------|------|--------|--------|\n")
		for _, r := range results.Rankings {
			w("| %4d | %-13s | %5.0f | %4d | %6d | %6d |\n", r.Rank, r.Name, r.Score, r.Gold, r.Silver, r.Bronze)
		}
		w("\n")
	}
}

func writeTrialMarkdown(w func(string, ...any), r *benchmark.Report) {
	w("## Trial\n\n")
	w("Capacity %d, %d clients x %d requests (%s: %v), seed %d, %d accesses.\n\n",
		r.Capacity, r.Clients, r.Requests, r.Mode, r.Distributions, r.Seed, r.TotalAccesses)
	w("| Policy                       | Hit Rate | Hits | Misses | Mean Latency |\n")
	w("|------------------------------|----------|------|--------|--------------|\n")
	for _, res := range r.Results {
		w("| %-28s | %7.2f%% | %4d | %6d | %9.3f ms |\n",
			cache.Label(res.Name), res.HitRate, res.Hits, res.Misses, res.MeanLatencyMs)
	}
	if r.Winner != "" {
		w("\n  winner: %s\n", cache.Label(r.Winner))
	}
	w("\n")
}

func writeHitRateMarkdown(w func(string, ...any), name string, data []benchmark.HitRateResult, sizes []int) {
	if len(data) == 0 {
		return
	}

	w("### %s\n\n", name)

	w("| Policy        |")
	for _, size := range sizes {
		w(" %6d |", size)
	}
	w("    Avg |\n")

	w("|---------------|")
	for range sizes {
		w("--------|")
	}
	w("--------|\n")

	sorted := sortByHitRate(data, sizes)
	for _, r := range sorted {
		w("| %-13s |", r.Name)
		for _, size := range sizes {
			w(" %5.2f%% |", r.Rates[size])
		}
		w(" %5.2f%% |\n", AvgHitRate(r, sizes))
	}

	if len(sorted) >= 2 {
		best, second := sorted[0], sorted[1]
		w("\n  winner: %s (%s vs %s)\n", best.Name,
			pctGain(AvgHitRate(best, sizes), AvgHitRate(second, sizes)), second.Name)
	}
	w("\n")
}

func writeLatencyMarkdown(w func(string, ...any), data []benchmark.LatencyResult) {
	if len(data) == 0 {
		return
	}

	w("| Policy        | Get ns | Get alloc | Set ns | Set alloc | SetEvict ns | SetEvict alloc | Avg ns |\n")
	w("|---------------|--------|-----------|--------|-----------|-------------|----------------|--------|\n")

	sorted := sortByLatency(data)
	for _, r := range sorted {
		w("| %-13s | %6.0f | %9d | %6.0f | %9d | %11.0f | %14d | %6.0f |\n",
			r.Name, r.GetNsOp, r.GetAllocs, r.SetNsOp, r.SetAllocs, r.SetEvictNsOp, r.SetEvictAllocs, avgLatency(r))
	}

	if len(sorted) >= 2 {
		best, second := sorted[0], sorted[1]
		w("\n  winner: %s (%s vs %s)\n", best.Name, pctGain(avgLatency(second), avgLatency(best)), second.Name)
	}
	w("\n")
}

func writeMemoryMarkdown(w func(string, ...any), data []benchmark.MemoryResult) {
	sorted := make([]benchmark.MemoryResult, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Bytes < sorted[j].Bytes })

	w("| Policy        | Items Stored | Memory (MB) | Overhead (bytes/item) |\n")
	w("|---------------|--------------|-------------|-----------------------|\n")

	for _, r := range sorted {
		mb := float64(r.Bytes) / 1024 / 1024
		w("| %-13s | %12d | %11.2f | %21d |\n", r.Name, r.Items, mb, r.BytesPerItem)
	}

	if len(sorted) >= 2 {
		best, second := sorted[0], sorted[1]
		w("\n  winner: %s (%s vs %s)\n", best.Name, pctGain(float64(second.Bytes), float64(best.Bytes)), second.Name)
	}
	w("\n")
}

// pctGain formats how much better a is than b as a signed percentage.
func pctGain(a, b float64) string {
	if b == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", (a-b)/b*100)
}
