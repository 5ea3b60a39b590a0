// Package chart renders sweep results with gonum/plot.
package chart

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/weiihann/mpisweep/report"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Options controls where and how charts are written.
type Options struct {
	Dir    string
	Format string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions writes 8x5 inch PNGs into plots/.
func DefaultOptions() Options {
	return Options{
		Dir:    "plots",
		Format: "png",
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

func (o Options) path(name string) string {
	return filepath.Join(o.Dir, name+"."+o.Format)
}

// Speedup plots n against mean speedup with one line per process count.
// It returns the path of the written file.
func Speedup(points []report.Point, opts Options) (string, error) {
	p := plot.New()
	p.Title.Text = "Speedup over single process"
	p.X.Label.Text = "n"
	p.Y.Label.Text = "speedup"

	series := meanSeries(points,
		func(pt report.Point) int { return pt.NumProcessors },
		func(pt report.Point) float64 { return pt.Speedup },
	)

	if err := addLines(p, series, "np=%d"); err != nil {
		return "", err
	}

	return save(p, opts, "speedup")
}

// Time plots n against mean time with one line per dimensionality. The
// caller picks the process count by filtering points.
func Time(points []report.Point, opts Options) (string, error) {
	p := plot.New()
	p.Title.Text = "Time by dimensionality"
	p.X.Label.Text = "# of d-dimensional points"
	p.Y.Label.Text = "time (ms)"

	series := meanSeries(points,
		func(pt report.Point) int { return pt.D },
		func(pt report.Point) float64 { return pt.Time },
	)

	if err := addLines(p, series, "d=%d"); err != nil {
		return "", err
	}

	return save(p, opts, "time")
}

type series struct {
	key int
	xys plotter.XYs
}

// meanSeries groups points by key and, within a group, averages y over
// points sharing the same n. Series and their points are sorted.
func meanSeries(
	points []report.Point,
	key func(report.Point) int,
	y func(report.Point) float64,
) []series {
	grouped := make(map[int]map[int][]float64)

	for _, pt := range points {
		k := key(pt)
		if grouped[k] == nil {
			grouped[k] = make(map[int][]float64)
		}
		grouped[k][pt.N] = append(grouped[k][pt.N], y(pt))
	}

	out := make([]series, 0, len(grouped))

	for _, k := range slices.Sorted(maps.Keys(grouped)) {
		byN := grouped[k]
		s := series{key: k, xys: make(plotter.XYs, 0, len(byN))}

		for _, n := range slices.Sorted(maps.Keys(byN)) {
			s.xys = append(s.xys, plotter.XY{
				X: float64(n),
				Y: stat.Mean(byN[n], nil),
			})
		}

		out = append(out, s)
	}

	return out
}

func addLines(p *plot.Plot, ss []series, label string) error {
	if len(ss) == 0 {
		return fmt.Errorf("no data to plot")
	}

	for i, s := range ss {
		line, pts, err := plotter.NewLinePoints(s.xys)
		if err != nil {
			return fmt.Errorf("series %d: %w", s.key, err)
		}

		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		pts.Color = plotutil.Color(i)
		pts.Shape = plotutil.Shape(i)

		p.Add(line, pts)
		p.Legend.Add(fmt.Sprintf(label, s.key), line, pts)
	}

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return nil
}

func save(p *plot.Plot, opts Options, name string) (string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create plot dir: %w", err)
	}

	path := opts.path(name)
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	return path, nil
}
