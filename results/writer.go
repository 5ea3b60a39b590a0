// Package results persists sweep results as CSV and loads them back for
// analysis.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/weiihann/mpisweep/harness"
)

// Header returns the CSV header. withNP selects whether the
// num_processors column is present.
func Header(withNP bool) []string {
	if withNP {
		return []string{"base_command", "dataset", "num_processors", "n", "d", "k", "time"}
	}

	return []string{"base_command", "dataset", "n", "d", "k", "time"}
}

// Writer appends result rows to a CSV stream. Every row is flushed as
// soon as it is written so an interrupted sweep keeps its rows.
type Writer struct {
	csv    *csv.Writer
	closer io.Closer
	withNP bool
}

// NewWriter writes the header to w and returns a Writer for the rows.
func NewWriter(w io.Writer, withNP bool) (*Writer, error) {
	cw := &Writer{csv: csv.NewWriter(w), withNP: withNP}

	if err := cw.writeRecord(Header(withNP)); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return cw, nil
}

// Create truncates or creates the file at path and writes the header.
func Create(path string, withNP bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}

	w, err := NewWriter(f, withNP)
	if err != nil {
		f.Close()

		return nil, err
	}

	w.closer = f

	return w, nil
}

// Write appends one result row.
func (w *Writer) Write(r *harness.Result) error {
	row := make([]string, 0, 7)
	row = append(row, r.Template, r.Dataset)

	if w.withNP {
		row = append(row, strconv.Itoa(r.NumProcessors))
	}

	row = append(row,
		strconv.Itoa(r.N),
		strconv.Itoa(r.D),
		strconv.Itoa(r.K),
		r.Time,
	)

	if err := w.writeRecord(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying file, if Writer owns one.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}

		return err
	}

	if w.closer != nil {
		return w.closer.Close()
	}

	return nil
}

func (w *Writer) writeRecord(rec []string) error {
	if err := w.csv.Write(rec); err != nil {
		return err
	}

	w.csv.Flush()

	return w.csv.Error()
}
