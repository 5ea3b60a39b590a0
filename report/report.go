// Package report derives speedup and averaged timings from sweep
// measurements and formats them as tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Generate writes a markdown table of averaged results.
func Generate(w io.Writer, avgs []Average) error {
	if len(avgs) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Sweep Results")
	fmt.Fprintln(w)

	best := fastestSpeedup(avgs)
	fmt.Fprintf(w, "Best speedup: **%.2fx** (n=%d, d=%d, np=%d)\n",
		best.Speedup, best.N, best.D, best.NumProcessors)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| n | d | np | Runs | Time | Baseline | Speedup |")
	fmt.Fprintln(w, "|---|---|----|------|------|----------|---------|")

	for _, a := range avgs {
		fmt.Fprintf(w, "| %d | %d | %d | %d | %s | %s | %.2fx |\n",
			a.N,
			a.D,
			a.NumProcessors,
			a.Runs,
			formatMs(a.Time),
			formatMs(a.RefTime),
			a.Speedup,
		)
	}

	return nil
}

// GenerateJSON writes averaged results as JSON to w.
func GenerateJSON(w io.Writer, avgs []Average) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(avgs)
}

func fastestSpeedup(avgs []Average) Average {
	best := avgs[0]
	for _, a := range avgs[1:] {
		if a.Speedup > best.Speedup {
			best = a
		}
	}

	return best
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}

	return fmt.Sprintf("%.2fs", ms/1000)
}
