package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tstromberg/policybench/internal/benchmark"
)

// Summary keys read by the charting dashboard.
const (
	keyPolicies = "ALGORITMOS"
	keyLatency  = "TEMPO_MEDIO"
	keyHitRate  = "TAXA_HIT"
	keyMisses   = "TOTAL_MISSES"
)

// WriteSummary writes a trial in the dashboard's "KEY: v1 v2 ..." format,
// one column per policy in evaluation order.
func WriteSummary(filename string, report benchmark.Report) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := writeSummary(f, report); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	return f.Close()
}

func writeSummary(w io.Writer, report benchmark.Report) error {
	var names, latency, hitRate, misses []string
	for _, r := range report.Results {
		names = append(names, strings.ToUpper(r.Name))
		latency = append(latency, strconv.FormatFloat(r.MeanLatencyMs, 'f', 4, 64))
		hitRate = append(hitRate, strconv.FormatFloat(r.HitRate, 'f', 2, 64))
		misses = append(misses, strconv.FormatInt(r.Misses, 10))
	}
	_, err := fmt.Fprintf(w, "%s: %s\n%s: %s\n%s: %s\n%s: %s\n",
		keyPolicies, strings.Join(names, " "),
		keyLatency, strings.Join(latency, " "),
		keyHitRate, strings.Join(hitRate, " "),
		keyMisses, strings.Join(misses, " "),
	)
	return err
}

// SummaryRow is one policy column of a dashboard summary.
type SummaryRow struct {
	Name          string
	MeanLatencyMs float64
	HitRate       float64
	Misses        int64
}

// ReadSummary parses a dashboard summary. Unknown keys are ignored.
func ReadSummary(r io.Reader) ([]SummaryRow, error) {
	fields := make(map[string][]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(k)] = strings.Fields(v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	names := fields[keyPolicies]
	rows := make([]SummaryRow, len(names))
	for i, n := range names {
		rows[i].Name = n
	}
	for _, col := range []struct {
		key string
		set func(row *SummaryRow, v string) error
	}{
		{keyLatency, func(row *SummaryRow, v string) (err error) {
			row.MeanLatencyMs, err = strconv.ParseFloat(v, 64)
			return err
		}},
		{keyHitRate, func(row *SummaryRow, v string) (err error) {
			row.HitRate, err = strconv.ParseFloat(v, 64)
			return err
		}},
		{keyMisses, func(row *SummaryRow, v string) (err error) {
			row.Misses, err = strconv.ParseInt(v, 10, 64)
			return err
		}},
	} {
		vals := fields[col.key]
		if len(vals) != len(rows) {
			return nil, fmt.Errorf("%s: %d values for %d policies", col.key, len(vals), len(rows))
		}
		for i, v := range vals {
			if err := col.set(&rows[i], v); err != nil {
				return nil, fmt.Errorf("%s: %w", col.key, err)
			}
		}
	}
	return rows, nil
}
