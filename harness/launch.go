package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/weiihann/mpisweep/sweep"
)

// Launcher command templates. Placeholders are substituted per argument
// after the template has been split with shell quoting rules.
const (
	LocalTemplate       = "mpirun -np {np} {binary} -f={dataset} -n={n} -d={d} -k={k}"
	DistributedTemplate = "srun --nodes {np} {binary} -f={dataset} -n={n} -d={d} -k={k}"
)

// ResolveTemplate picks the launcher template. A non-empty custom
// template wins over the distributed switch.
func ResolveTemplate(distributed bool, custom string) string {
	switch {
	case custom != "":
		return custom
	case distributed:
		return DistributedTemplate
	default:
		return LocalTemplate
	}
}

// Expand splits template into argv and fills in the placeholders for
// one combination.
func Expand(template, binary, dataset string, c sweep.Combination) ([]string, error) {
	words, err := shellwords.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("parse command template %q: %w", template, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("command template %q is empty", template)
	}

	r := strings.NewReplacer(
		"{np}", strconv.Itoa(c.NumProcessors),
		"{binary}", binary,
		"{dataset}", dataset,
		"{n}", strconv.Itoa(c.N),
		"{d}", strconv.Itoa(c.D),
		"{k}", strconv.Itoa(c.K),
	)

	for i, w := range words {
		words[i] = r.Replace(w)
	}

	return words, nil
}
