package output

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"strings"

	"github.com/tstromberg/policybench/internal/benchmark"
	"github.com/tstromberg/policybench/internal/cache"
)

//go:embed template.html
var templateFS embed.FS

// WriteHTML writes benchmark results to an HTML file.
func WriteHTML(filename string, results Results) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := htmlTemplate.Execute(f, results); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("render html: %w", err)
	}
	return f.Close()
}

var htmlTemplate = template.Must(template.New("template.html").Funcs(templateFuncs).ParseFS(templateFS, "template.html"))

var templateFuncs = template.FuncMap{
	"label":         cache.Label,
	"avgHitRate":    AvgHitRate,
	"avgLatency":    avgLatency,
	"sortByHitRate": sortByHitRate,
	"sortByLatency": sortByLatency,
	"sizeLabels": func(sizes []int) template.JS {
		labels := make([]string, len(sizes))
		for i, s := range sizes {
			labels[i] = strconv.Quote(strconv.Itoa(s))
		}
		return template.JS("[" + strings.Join(labels, ",") + "]") //nolint:gosec // built from ints
	},
	"hitRateDatasets": func(results []benchmark.HitRateResult, sizes []int) template.JS {
		var datasets []string
		for i, r := range results {
			color := policyColor(r.Name, i)
			var data []string
			for _, size := range sizes {
				data = append(data, fmt.Sprintf("%.2f", r.Rates[size]))
			}
			datasets = append(datasets, fmt.Sprintf(
				`{label:%q,data:[%s],borderColor:%q,backgroundColor:%q,tension:0.1,fill:false,borderWidth:1.5,pointRadius:2,pointHoverRadius:4}`,
				r.Name, strings.Join(data, ","), color, color,
			))
		}
		return template.JS("[" + strings.Join(datasets, ",") + "]") //nolint:gosec // names come from the registry
	},
	"trialChart": func(r *benchmark.Report) template.JS {
		var names, rates, latency, colors []string
		for i, res := range r.Results {
			names = append(names, strconv.Quote(res.Name))
			rates = append(rates, fmt.Sprintf("%.2f", res.HitRate))
			latency = append(latency, fmt.Sprintf("%.3f", res.MeanLatencyMs))
			colors = append(colors, strconv.Quote(policyColor(res.Name, i)))
		}
		return template.JS(fmt.Sprintf( //nolint:gosec // names come from the registry
			`{labels:[%s],rates:[%s],latency:[%s],colors:[%s]}`,
			strings.Join(names, ","), strings.Join(rates, ","), strings.Join(latency, ","), strings.Join(colors, ","),
		))
	},
	"pct": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"ns":  func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"ms":  func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"barWidth": func(value, maxValue float64) float64 {
		if maxValue == 0 {
			return 0
		}
		return (value / maxValue) * 100
	},
	"maxLatency": func(results []benchmark.LatencyResult) float64 {
		m := 0.0
		for _, r := range results {
			m = max(m, avgLatency(r))
		}
		return m
	},
	"mb": func(b uint64) string {
		return fmt.Sprintf("%.2f", float64(b)/1024/1024)
	},
	"isWinner": func(r *benchmark.Report, name string) bool { return r.Winner == name },
}

var fallbackColors = []string{"#388E3C", "#1E88E5", "#E53935", "#8E24AA", "#FB8C00"}

var policyColors = map[string]string{
	"fifo":      "#455A64",
	"lru":       "#AFB42B",
	"mru":       "#C62828",
	"2q":        "#E64A19",
	"lru-ref":   "#9E9D24",
	"2q-ref":    "#BF360C",
	"otter":     "#1976D2",
	"theine":    "#D32F2F",
	"ristretto": "#7B1FA2",
	"freecache": "#F57C00",
	"freelru":   "#0288D1",
	"tinylfu":   "#C2185B",
	"sieve":     "#5D4037",
	"s3-fifo":   "#607D8B",
	"s4lru":     "#512DA8",
	"clock":     "#00695C",
	"ttlcache":  "#0097A7",
}

func policyColor(name string, i int) string {
	if c, ok := policyColors[name]; ok {
		return c
	}
	return fallbackColors[i%len(fallbackColors)]
}
