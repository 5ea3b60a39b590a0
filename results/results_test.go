package results

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weiihann/mpisweep/harness"
	"github.com/weiihann/mpisweep/sweep"
)

func TestWriterHeader(t *testing.T) {
	tests := []struct {
		name   string
		withNP bool
		want   string
	}{
		{"with np", true, "base_command,dataset,num_processors,n,d,k,time\n"},
		{"without np", false, "base_command,dataset,n,d,k,time\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := NewWriter(&buf, tt.withNP); err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("header = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriterRows(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, true)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	rows := []*harness.Result{
		{
			Template:    harness.LocalTemplate,
			Dataset:     "datasets/mnist_test.csv",
			Combination: sweep.Combination{NumProcessors: 4, N: 2000, D: 16, K: 5},
			Time:        "12.5",
		},
		{
			Template:    harness.LocalTemplate,
			Dataset:     "datasets/mnist_test.csv",
			Combination: sweep.Combination{NumProcessors: 1, N: 2000, D: 8, K: 5},
		},
	}

	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}

	wantFirst := harness.LocalTemplate + ",datasets/mnist_test.csv,4,2000,16,5,12.5"
	if lines[1] != wantFirst {
		t.Errorf("row 1 = %q, want %q", lines[1], wantFirst)
	}
	if !strings.HasSuffix(lines[2], ",1,2000,8,5,") {
		t.Errorf("row 2 = %q, want empty time field", lines[2])
	}
}

func TestWriterWithoutNP(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, false)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	err = w.Write(&harness.Result{
		Template:    "t",
		Dataset:     "ds",
		Combination: sweep.Combination{NumProcessors: 4, N: 10, D: 2, K: 1},
		Time:        "1",
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[1] != "t,ds,10,2,1,1" {
		t.Errorf("row = %q, want t,ds,10,2,1,1", lines[1])
	}
}

func TestCreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(path, []byte("stale content\nmore\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Create(path, true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Join(Header(true), ",") + "\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestRead(t *testing.T) {
	input := `base_command, dataset, num_processors, n, d, k, time
cmd,ds,1,100,8,5,10.0
cmd,ds,4,100,8,5,2.5
cmd,ds,4,100,16,5,
`

	ms, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(ms) != 2 {
		t.Fatalf("got %d measurements, want 2", len(ms))
	}

	want := Measurement{N: 100, D: 8, NumProcessors: 4, Time: 2.5}
	if ms[1] != want {
		t.Errorf("measurement = %+v, want %+v", ms[1], want)
	}
}

func TestReadRoundTripsWriter(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, true)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	err = w.Write(&harness.Result{
		Template:    harness.DistributedTemplate,
		Dataset:     "ds",
		Combination: sweep.Combination{NumProcessors: 2, N: 50, D: 4, K: 3},
		Time:        "7.75",
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ms, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := Measurement{N: 50, D: 4, NumProcessors: 2, Time: 7.75}
	if len(ms) != 1 || ms[0] != want {
		t.Errorf("measurements = %+v, want [%+v]", ms, want)
	}
}

func TestReadMissingColumn(t *testing.T) {
	input := "base_command,dataset,n,d,k,time\ncmd,ds,10,2,1,1\n"

	_, err := Read(strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad n", "n,d,num_processors,time\nx,2,1,1.0\n"},
		{"bad time", "n,d,num_processors,time\n10,2,1,fast\n"},
		{"short row", "n,d,num_processors,time\n10,2\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "results.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
