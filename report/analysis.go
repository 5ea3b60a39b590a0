package report

import (
	"cmp"
	"errors"
	"slices"

	"github.com/weiihann/mpisweep/results"
	"gonum.org/v1/gonum/stat"
)

// ErrNoBaseline is returned when no single-process measurements exist.
var ErrNoBaseline = errors.New("no single-process baseline measurements")

// BaselineProcessors is the process count speedup is relative to.
const BaselineProcessors = 1

// Problem identifies a problem size independent of process count.
type Problem struct {
	N int
	D int
}

// Config identifies a run configuration in the derived dataset.
type Config struct {
	N             int `json:"n"`
	D             int `json:"d"`
	NumProcessors int `json:"num_processors"`
}

// Point is a measurement joined with its baseline.
type Point struct {
	results.Measurement
	RefTime float64
	Speedup float64
}

// Average is the mean over repeated measurements of one Config.
type Average struct {
	Config
	Runs    int     `json:"runs"`
	Time    float64 `json:"time"`
	RefTime float64 `json:"ref_time"`
	Speedup float64 `json:"speedup"`
}

// Baselines returns the mean single-process time per problem.
func Baselines(ms []results.Measurement) map[Problem]float64 {
	times := make(map[Problem][]float64)

	for _, m := range ms {
		if m.NumProcessors != BaselineProcessors {
			continue
		}

		p := Problem{N: m.N, D: m.D}
		times[p] = append(times[p], m.Time)
	}

	out := make(map[Problem]float64, len(times))
	for p, ts := range times {
		out[p] = stat.Mean(ts, nil)
	}

	return out
}

// Speedups joins every measurement with the baseline mean for its
// (n, d) and computes speedup = ref_time / time. Measurements without a
// baseline are dropped.
func Speedups(ms []results.Measurement) ([]Point, error) {
	base := Baselines(ms)
	if len(base) == 0 {
		return nil, ErrNoBaseline
	}

	points := make([]Point, 0, len(ms))

	for _, m := range ms {
		ref, ok := base[Problem{N: m.N, D: m.D}]
		if !ok {
			continue
		}

		points = append(points, Point{
			Measurement: m,
			RefTime:     ref,
			Speedup:     ref / m.Time,
		})
	}

	return points, nil
}

// Averages groups points by (n, d, num_processors) and averages time,
// ref_time and speedup. The result is sorted by n, d, num_processors.
func Averages(points []Point) []Average {
	groups := make(map[Config][]Point)
	for _, p := range points {
		c := Config{N: p.N, D: p.D, NumProcessors: p.NumProcessors}
		groups[c] = append(groups[c], p)
	}

	out := make([]Average, 0, len(groups))

	for c, ps := range groups {
		times := make([]float64, len(ps))
		refs := make([]float64, len(ps))
		speedups := make([]float64, len(ps))

		for i, p := range ps {
			times[i] = p.Time
			refs[i] = p.RefTime
			speedups[i] = p.Speedup
		}

		out = append(out, Average{
			Config:  c,
			Runs:    len(ps),
			Time:    stat.Mean(times, nil),
			RefTime: stat.Mean(refs, nil),
			Speedup: stat.Mean(speedups, nil),
		})
	}

	slices.SortFunc(out, func(a, b Average) int {
		return cmp.Or(
			cmp.Compare(a.N, b.N),
			cmp.Compare(a.D, b.D),
			cmp.Compare(a.NumProcessors, b.NumProcessors),
		)
	})

	return out
}

// FilterProcessors returns the points measured with np processes.
func FilterProcessors(points []Point, np int) []Point {
	var out []Point

	for _, p := range points {
		if p.NumProcessors == np {
			out = append(out, p)
		}
	}

	return out
}
