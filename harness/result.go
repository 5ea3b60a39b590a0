// Package harness launches the external benchmark binary for each sweep
// combination and scrapes the timing it prints.
package harness

import (
	"regexp"

	"github.com/weiihann/mpisweep/sweep"
)

var totalTimeRe = regexp.MustCompile(`Total time: (\d+\.?\d*)`)

// Result holds one invocation of the benchmark binary.
type Result struct {
	Template string `json:"base_command"`
	Dataset  string `json:"dataset"`
	sweep.Combination

	// Time is the captured "Total time" value as printed, or empty when
	// the output did not contain one.
	Time string `json:"time"`
}

// ExtractTime returns the first "Total time: <number>" value in output,
// or "" if there is none.
func ExtractTime(output []byte) string {
	m := totalTimeRe.FindSubmatch(output)
	if m == nil {
		return ""
	}

	return string(m[1])
}
