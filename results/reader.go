package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a required column is not in the
// CSV header.
var ErrMissingColumn = errors.New("missing column")

// DefaultPath is where the plot command looks for results.
const DefaultPath = "results/results.csv"

// Measurement is one timed run as read back from a results file.
type Measurement struct {
	N             int
	D             int
	NumProcessors int
	// Time is in milliseconds.
	Time float64
}

var requiredColumns = []string{"n", "d", "num_processors", "time"}

// Load reads measurements from the CSV file at path.
func Load(path string) ([]Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	ms, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return ms, nil
}

// Read parses measurements from CSV. Columns are located by header
// name and extra columns are ignored. Rows with an empty time field are
// skipped; any other unparsable field is an error.
func Read(r io.Reader) ([]Measurement, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	idx := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrMissingColumn)
		}
		idx[name] = i
	}

	var out []Measurement

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)

		timeField := strings.TrimSpace(rec[idx["time"]])
		if timeField == "" {
			continue
		}

		var m Measurement

		if m.N, err = atoi(rec, idx["n"]); err != nil {
			return nil, fmt.Errorf("line %d: n: %w", line, err)
		}
		if m.D, err = atoi(rec, idx["d"]); err != nil {
			return nil, fmt.Errorf("line %d: d: %w", line, err)
		}
		if m.NumProcessors, err = atoi(rec, idx["num_processors"]); err != nil {
			return nil, fmt.Errorf("line %d: num_processors: %w", line, err)
		}
		if m.Time, err = strconv.ParseFloat(timeField, 64); err != nil {
			return nil, fmt.Errorf("line %d: time: %w", line, err)
		}

		out = append(out, m)
	}

	return out, nil
}

func atoi(rec []string, i int) (int, error) {
	return strconv.Atoi(strings.TrimSpace(rec[i]))
}
