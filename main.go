// policybench compares cache eviction policies in front of a slow item store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tstromberg/policybench/internal/benchmark"
	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/config"
	"github.com/tstromberg/policybench/internal/output"
	"github.com/tstromberg/policybench/internal/trace"
	"github.com/tstromberg/policybench/internal/workload"
)

// validSuites lists all available benchmark suites in run order.
var validSuites = []string{"trial", "sweep", "replay", "latency", "memory"}

// parseIntList parses a comma-separated string of integers.
func parseIntList(input string) ([]int, error) {
	var result []int
	for s := range strings.SplitSeq(input, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		result = append(result, n)
	}
	return result, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(input string) []string {
	var out []string
	for s := range strings.SplitSeq(input, ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type flags struct {
	configPath    *string
	capacity      *int
	clients       *int
	requests      *int
	seed          *uint64
	mode          *string
	distributions *string
	policies      *string
	suites        *string
	sizes         *string
	dir           *string
	delay         *time.Duration
	parallel      *bool
	tracePath     *string
	record        *string
	read          *bool
	outDir        *string
	jsonOut       *string
	mdOut         *string
	htmlOut       *string
	summaryOut    *string
	openHTML      *bool
	logLevel      *string
	logFormat     *string
}

func defineFlags() flags {
	return flags{
		configPath:    flag.String("config", "", "YAML config file; flags override its values"),
		capacity:      flag.Int("capacity", 0, "Cache capacity in items (default 10)"),
		clients:       flag.Int("clients", 0, "Simulated clients per policy (default 3)"),
		requests:      flag.Int("requests", 0, "Requests per client (default 200)"),
		seed:          flag.Uint64("seed", 0, "Workload seed (default 42)"),
		mode:          flag.String("mode", "", "Distribution blending: positional or random"),
		distributions: flag.String("distributions", "", "Comma-separated distributions: uniform,poisson,hotspot,zipf"),
		policies:      flag.String("policies", "", "Comma-separated policies, or all (default: fifo,lru,mru,2q)"),
		suites:        flag.String("suites", "", "Comma-separated suites: trial,sweep,replay,latency,memory (default: trial)"),
		sizes:         flag.String("sizes", "", "Comma-separated cache sizes for sweep and replay (default: 5,10,20,40)"),
		dir:           flag.String("dir", "", "Directory of N.txt items (default: synthetic items)"),
		delay:         flag.Duration("delay", -1, "Simulated store latency per fetch (default 100ms)"),
		parallel:      flag.Bool("parallel", false, "Run policy trials concurrently"),
		tracePath:     flag.String("trace", "", "Access trace to replay (.zst for compressed)"),
		record:        flag.String("record", "", "Write the generated trial workload to this trace file"),
		read:          flag.Bool("read", false, "Start an interactive reading session after the benchmarks"),
		outDir:        flag.String("outdir", "", "Output directory for policybench_results.{html,md,json} and the dashboard summary"),
		jsonOut:       flag.String("json", "", "Output results to JSON file (.zst to compress)"),
		mdOut:         flag.String("md", "", "Output results to Markdown file"),
		htmlOut:       flag.String("html", "", "Output results to HTML file"),
		summaryOut:    flag.String("summary", "", "Output trial results in dashboard format"),
		openHTML:      flag.Bool("open", false, "Open HTML report in web browser after generation"),
		logLevel:      flag.String("log-level", "", "Log level: debug, info, warn, error"),
		logFormat:     flag.String("log-format", "", "Log format: text or json"),
	}
}

// apply layers explicitly set flags over cfg.
func (f flags) apply(cfg *config.Config) error {
	var err error
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "capacity":
			cfg.Capacity = *f.capacity
		case "clients":
			cfg.Clients = *f.clients
		case "requests":
			cfg.Workload.Requests = *f.requests
		case "seed":
			cfg.Workload.Seed = *f.seed
		case "mode":
			cfg.Workload.Mode = *f.mode
		case "distributions":
			cfg.Workload.Distributions = splitList(*f.distributions)
		case "policies":
			cfg.Policies = splitList(*f.policies)
		case "suites":
			cfg.Suites = splitList(*f.suites)
		case "sizes":
			cfg.Sizes, err = parseIntList(*f.sizes)
		case "dir":
			cfg.Store.Dir = *f.dir
		case "delay":
			cfg.Store.Delay = *f.delay
		case "parallel":
			cfg.Parallel = *f.parallel
		case "trace":
			cfg.Trace = *f.tracePath
		case "json":
			cfg.Output.JSON = *f.jsonOut
		case "md":
			cfg.Output.Markdown = *f.mdOut
		case "html":
			cfg.Output.HTML = *f.htmlOut
		case "summary":
			cfg.Output.Summary = *f.summaryOut
		case "log-level":
			cfg.Log.Level = *f.logLevel
		case "log-format":
			cfg.Log.Format = *f.logFormat
		}
	})
	if err != nil {
		return fmt.Errorf("-sizes: %w", err)
	}
	if *f.outDir != "" {
		if err := os.MkdirAll(*f.outDir, 0o755); err != nil { //nolint:gosec // G301: 0755 is standard dir permission
			return fmt.Errorf("create output directory: %w", err)
		}
		cfg.Output.JSON = filepath.Join(*f.outDir, "policybench_results.json")
		cfg.Output.Markdown = filepath.Join(*f.outDir, "policybench_results.md")
		cfg.Output.HTML = filepath.Join(*f.outDir, "policybench_results.html")
		cfg.Output.Summary = filepath.Join(*f.outDir, "resultados_simulacao.txt")
	}
	return cfg.Validate()
}

func main() {
	showHelp := flag.Bool("help", false, "Show help message")
	f := defineFlags()
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := f.apply(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commandLine := "policybench " + strings.Join(os.Args[1:], " ")
	results, err := run(ctx, cfg, *f.record, commandLine)
	if err != nil {
		slog.Error("benchmark failed", "error", err)
		os.Exit(1)
	}

	if err := export(cfg.Output, results); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
	if *f.openHTML && cfg.Output.HTML != "" {
		if err := openBrowser(cfg.Output.HTML); err != nil {
			slog.Warn("could not open browser", "error", err)
		}
	}

	if *f.read {
		winner := ""
		if results.Trial != nil {
			winner = results.Trial.Winner
		}
		if err := readSession(ctx, cfg, winner, os.Stdin, os.Stdout); err != nil {
			slog.Error("reading session failed", "error", err)
			os.Exit(1)
		}
	}
}

// run executes the configured suites.
func run(ctx context.Context, cfg config.Config, recordPath, commandLine string) (output.Results, error) {
	results := output.NewResults(commandLine)

	cache.SetFilter(cfg.Policies)
	gen, err := workload.New(cfg.WorkloadConfig())
	if err != nil {
		return results, err
	}

	suiteFilter := make(map[string]bool, len(cfg.Suites))
	for _, s := range cfg.Suites {
		suiteFilter[s] = true
	}
	if cfg.Trace != "" {
		suiteFilter["replay"] = true
	}

	printHeader(cfg, suiteFilter)

	if recordPath != "" {
		var ids []int
		for client := range cfg.Clients {
			ids = append(ids, gen.Sequence(client)...)
		}
		if err := trace.Write(recordPath, ids); err != nil {
			return results, err
		}
		slog.Info("recorded trace", "path", recordPath, "ops", len(ids))
	}

	if suiteFilter["trial"] {
		printSuite("trial", "clients against the item store")
		runner, err := benchmark.NewRunner(cfg.Benchmark(), gen, cfg.NewStore(), slog.Default())
		if err != nil {
			return results, err
		}
		report, err := runner.Run(ctx, cache.All())
		if err != nil {
			return results, err
		}
		results.Trial = &report
		printTrialTable(report)
	}

	if suiteFilter["sweep"] || suiteFilter["replay"] {
		data := &output.HitRateData{Sizes: cfg.Sizes}
		if suiteFilter["sweep"] {
			printSuite("sweep", "hit rate by capacity")
			data.Generated = benchmark.Sweep(cache.All(), gen, cfg.Clients, cfg.Sizes)
			printHitRateTable(data.Generated, cfg.Sizes)
		}
		if suiteFilter["replay"] {
			if cfg.Trace == "" {
				return results, errors.New("replay suite needs a trace file (-trace)")
			}
			ops, err := trace.Load(cfg.Trace)
			if err != nil {
				return results, fmt.Errorf("load trace: %w", err)
			}
			if err := trace.CheckRange(ops, cfg.Workload.MinID, cfg.Workload.MaxID); err != nil {
				return results, fmt.Errorf("trace %s: %w", cfg.Trace, err)
			}
			data.TraceInfo = trace.Info(cfg.Trace, ops)
			printSuite("replay", data.TraceInfo)
			data.Replay = benchmark.Replay(cache.All(), ops, cfg.Sizes)
			printHitRateTable(data.Replay, cfg.Sizes)
		}
		results.HitRate = data
	}

	if suiteFilter["latency"] {
		printSuite("latency", "single-threaded (ns/op)")
		lat := benchmark.RunLatency(cache.All())
		results.Latency = &output.LatencyData{Results: lat}
		printLatencyTable(lat)
	}

	if suiteFilter["memory"] {
		results.Memory = runMemoryBenchmarks()
	}

	results.Rankings, results.MedalTable = output.ComputeRankings(results)
	printOverallRanking(results.Rankings)
	return results, nil
}

// export writes every configured output file.
func export(out config.OutputConfig, results output.Results) error {
	if out.JSON != "" {
		if err := output.WriteJSON(out.JSON, results); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		fmt.Printf("Results: %s\n", out.JSON)
	}
	if out.Markdown != "" {
		if err := output.WriteMarkdown(out.Markdown, results); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
		fmt.Printf("         %s\n", out.Markdown)
	}
	if out.HTML != "" {
		if err := output.WriteHTML(out.HTML, results); err != nil {
			return fmt.Errorf("write HTML: %w", err)
		}
		fmt.Printf("         %s\n", out.HTML)
	}
	if out.Summary != "" && results.Trial != nil {
		if err := output.WriteSummary(out.Summary, *results.Trial); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		fmt.Printf("         %s\n", out.Summary)
	}
	return nil
}

func printUsage() {
	fmt.Println("policybench - Compare cache eviction policies")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  policybench                           Run the trial with fifo, lru, mru and 2q")
	fmt.Println("  policybench -suites trial,sweep       Add a hit rate sweep over cache sizes")
	fmt.Println("  policybench -policies all -delay 0    Include library caches, no store delay")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Suites:")
	fmt.Println("  trial    Clients read items through each policy; winner by hit rate")
	fmt.Println("  sweep    Hit rate of the trial workload at each -sizes capacity")
	fmt.Println("  replay   Hit rate of a recorded -trace at each -sizes capacity")
	fmt.Println("  latency  Get/Set ns/op and allocs/op without the store")
	fmt.Println("  memory   Heap per policy filled to capacity (isolated processes)")
	fmt.Println()
	fmt.Println("Available policies:")
	for _, name := range cache.AvailableNames() {
		fmt.Printf("  - %-10s %s\n", name, cache.Label(name))
	}
}

const lineWidth = 80

func printHeader(cfg config.Config, suiteFilter map[string]bool) {
	fmt.Println("policybench")
	fmt.Println()

	var suitesRun []string
	for _, s := range validSuites {
		if suiteFilter[s] {
			suitesRun = append(suitesRun, s)
		}
	}
	store := "synthetic"
	if cfg.Store.Dir != "" {
		store = cfg.Store.Dir
	}

	fmt.Printf("  policies: %s\n", strings.Join(cache.AllNames(), ", "))
	fmt.Printf("  suites:   %s\n", strings.Join(suitesRun, ", "))
	fmt.Printf("  capacity: %d, clients: %d x %d requests\n", cfg.Capacity, cfg.Clients, cfg.Workload.Requests)
	fmt.Printf("  workload: %s %s, seed %d\n", cfg.Workload.Mode, strings.Join(cfg.Workload.Distributions, "/"), cfg.Workload.Seed)
	fmt.Printf("  store:    %s (%s per fetch)\n", store, cfg.Store.Delay)
	fmt.Println()
}

func printSuite(name, description string) {
	header := fmt.Sprintf("%s: %s ", name, description)
	padding := max(lineWidth-len(header), 4)
	fmt.Printf("%s%s\n\n", header, strings.Repeat("─", padding))
}

func printTrialTable(r benchmark.Report) {
	fmt.Println("  | Policy                       | Hit Rate |  Hits | Misses | Mean Latency |")
	fmt.Println("  |------------------------------|----------|-------|--------|--------------|")
	for _, res := range r.Results {
		fmt.Printf("  | %-28s | %7.2f%% | %5d | %6d | %9.3f ms |\n",
			res.Label, res.HitRate, res.Hits, res.Misses, res.MeanLatencyMs)
	}
	fmt.Printf("\n  accesses: %d\n", r.TotalAccesses)
	if best, ok := benchmark.Winner(r.Results); ok {
		fmt.Printf("  winner: %s (%.2f%% hit rate, %.3f ms mean latency)\n", best.Label, best.HitRate, best.MeanLatencyMs)
	}
	fmt.Println()
}

func printHitRateTable(results []benchmark.HitRateResult, sizes []int) {
	entries := make([]output.WinnerEntry, 0, len(results))
	fmt.Print("  | Policy        |")
	for _, size := range sizes {
		fmt.Printf(" %6d |", size)
	}
	fmt.Println("    Avg |")

	fmt.Print("  |---------------|")
	for range sizes {
		fmt.Print("--------|")
	}
	fmt.Println("--------|")

	for _, r := range sortedByHitRate(results, sizes) {
		fmt.Printf("  | %-13s |", r.Name)
		for _, size := range sizes {
			fmt.Printf(" %5.2f%% |", r.Rates[size])
		}
		avg := output.AvgHitRate(r, sizes)
		fmt.Printf(" %5.2f%% |\n", avg)
		entries = append(entries, output.WinnerEntry{Name: r.Name, Score: avg})
	}

	if winners, runnerUp := output.FormatWinners(entries); len(winners) > 0 && runnerUp != nil && runnerUp.Score > 0 {
		best := entries[0].Score
		pct := (best - runnerUp.Score) / runnerUp.Score * 100
		fmt.Printf("\n  winner: %s (%.2f%% avg, +%.2f%% vs %s)\n", strings.Join(winners, ", "), best, pct, runnerUp.Name)
	}
	fmt.Println()
}

func sortedByHitRate(results []benchmark.HitRateResult, sizes []int) []benchmark.HitRateResult {
	sorted := make([]benchmark.HitRateResult, len(results))
	copy(sorted, results)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && output.AvgHitRate(sorted[j], sizes) > output.AvgHitRate(sorted[j-1], sizes); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// printLatencyTable prints a formatted latency results table with winner.
func printLatencyTable(results []benchmark.LatencyResult) {
	avgLatency := func(r benchmark.LatencyResult) float64 {
		return (r.GetNsOp + r.SetNsOp) / 2
	}

	sorted := make([]benchmark.LatencyResult, len(results))
	copy(sorted, results)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && avgLatency(sorted[j]) < avgLatency(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	fmt.Println("  | Policy        | Get ns | Get alloc | Set ns | Set alloc | SetEvict ns | SetEvict alloc | Avg ns |")
	fmt.Println("  |---------------|--------|-----------|--------|-----------|-------------|----------------|--------|")

	for _, r := range sorted {
		fmt.Printf("  | %-13s | %6.0f | %9d | %6.0f | %9d | %11.0f | %14d | %6.0f |\n",
			r.Name, r.GetNsOp, r.GetAllocs, r.SetNsOp, r.SetAllocs, r.SetEvictNsOp, r.SetEvictAllocs, avgLatency(r))
	}

	if len(sorted) >= 2 {
		best := sorted[0]
		second := sorted[1]
		pct := (avgLatency(second) - avgLatency(best)) / avgLatency(best) * 100
		fmt.Printf("\n  winner: %s (%.0f ns avg, %s is %.1f%% slower)\n", best.Name, avgLatency(best), second.Name, pct)
	}
	fmt.Println()
}

func runMemoryBenchmarks() *output.MemoryData {
	capacity := benchmark.DefaultMemoryCapacity
	valSize := benchmark.DefaultValueSize

	printSuite("memory", "overhead per item (isolated processes)")

	results, err := benchmark.RunMemory(cache.AllNames(), capacity, valSize)
	if err != nil {
		fmt.Printf("  error: %v\n\n", err)
		return nil
	}

	fmt.Println("  | Policy        | Items Stored | Memory (MB) | Overhead (bytes/item) |")
	fmt.Println("  |---------------|--------------|-------------|-----------------------|")

	for _, r := range results {
		mb := float64(r.Bytes) / 1024 / 1024
		fmt.Printf("  | %-13s | %12d | %11.2f | %21d |\n",
			r.Name, r.Items, mb, r.BytesPerItem)
	}

	if len(results) >= 2 {
		best := results[0]
		second := results[1]
		savings := float64(second.Bytes-best.Bytes) / float64(second.Bytes) * 100
		fmt.Printf("\n  winner: %s (%.1f%% less memory vs %s)\n", best.Name, savings, second.Name)
	}
	fmt.Println()

	return &output.MemoryData{Results: results, Capacity: capacity, ValSize: valSize}
}

func printOverallRanking(rankings []output.Ranking) {
	if len(rankings) == 0 {
		return
	}

	printSuite("summary", "ranked voting across all tests")

	for i := 0; i < len(rankings) && i < 3; i++ {
		r := rankings[i]
		fmt.Printf("  #%d  %s (%.0f points)\n", r.Rank, r.Name, r.Score)
	}
	fmt.Println()
}

// openBrowser opens the specified path in the default web browser.
func openBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path) //nolint:noctx // trusted command, fire-and-forget
	case "linux":
		cmd = exec.Command("xdg-open", path) //nolint:noctx // trusted command, fire-and-forget
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", path) //nolint:noctx // trusted command, fire-and-forget
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
