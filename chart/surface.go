package chart

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/weiihann/mpisweep/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
)

// ErrSparseGrid is returned when the data spans fewer than two distinct
// values on either axis of the surface.
var ErrSparseGrid = errors.New("surface needs at least two distinct n and d values")

const paletteLevels = 64

// grid lays averaged times out on an n by d lattice. Cells are indexed
// by position, not value, so geometric sweeps get evenly sized cells.
type grid struct {
	ns, ds []int
	z      [][]float64 // z[d][n]
}

var _ plotter.GridXYZ = (*grid)(nil)

func newGrid(avgs []report.Average) *grid {
	nSet := make(map[int]struct{})
	dSet := make(map[int]struct{})

	for _, a := range avgs {
		nSet[a.N] = struct{}{}
		dSet[a.D] = struct{}{}
	}

	g := &grid{
		ns: slices.Sorted(maps.Keys(nSet)),
		ds: slices.Sorted(maps.Keys(dSet)),
	}

	g.z = make([][]float64, len(g.ds))
	for r := range g.z {
		g.z[r] = make([]float64, len(g.ns))
		for c := range g.z[r] {
			g.z[r][c] = math.NaN()
		}
	}

	for _, a := range avgs {
		c, _ := slices.BinarySearch(g.ns, a.N)
		r, _ := slices.BinarySearch(g.ds, a.D)
		g.z[r][c] = a.Time
	}

	return g
}

func (g *grid) Dims() (c, r int)   { return len(g.ns), len(g.ds) }
func (g *grid) Z(c, r int) float64 { return g.z[r][c] }
func (g *grid) X(c int) float64    { return float64(c) }
func (g *grid) Y(r int) float64    { return float64(r) }

func ticks(values []int) []plot.Tick {
	out := make([]plot.Tick, len(values))
	for i, v := range values {
		out[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(v)}
	}

	return out
}

// Surface renders time over the n by d plane as a heat map with a
// cool-warm color map. Each cell is labelled with its time. The caller
// picks the process count by filtering avgs.
func Surface(avgs []report.Average, opts Options) (string, error) {
	g := newGrid(avgs)

	cols, rows := g.Dims()
	if cols < 2 || rows < 2 {
		return "", ErrSparseGrid
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(1)

	heat := plotter.NewHeatMap(g, cm.Palette(paletteLevels))
	heat.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Time (ms), %.1f to %.1f", heat.Min, heat.Max)
	p.X.Label.Text = "n"
	p.Y.Label.Text = "d"
	p.Add(heat)

	var labels plotter.XYLabels
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := g.Z(c, r)
			if math.IsNaN(v) {
				continue
			}

			labels.XYs = append(labels.XYs, plotter.XY{X: g.X(c), Y: g.Y(r)})
			labels.Labels = append(labels.Labels, strconv.FormatFloat(v, 'f', 1, 64))
		}
	}

	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return "", fmt.Errorf("cell labels: %w", err)
		}
		p.Add(l)
	}

	p.X.Tick.Marker = plot.ConstantTicks(ticks(g.ns))
	p.Y.Tick.Marker = plot.ConstantTicks(ticks(g.ds))

	return save(p, opts, "surface")
}
