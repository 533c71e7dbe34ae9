package render

import (
	"errors"
	"math"
	"strconv"

	"github.com/jamiedonnelly-px/manifold"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const plotSize = 4 * vg.Inch

// PlotValence saves a bar chart of the vertex valence distribution of m.
// The image format is chosen by the extension of path.
func PlotValence(path string, m manifold.Mesh) error {
	val := m.Valences()
	lo, hi := math.MaxInt, 0
	for _, v := range val {
		if v == 0 {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == 0 {
		return manifold.ErrEmptyMesh
	}
	counts := make(plotter.Values, hi-lo+1)
	names := make([]string, len(counts))
	for i := range names {
		names[i] = strconv.Itoa(lo + i)
	}
	for _, v := range val {
		if v > 0 {
			counts[v-lo]++
		}
	}
	p := plot.New()
	p.Title.Text = "Vertex valence"
	p.X.Label.Text = "valence"
	p.Y.Label.Text = "vertices"
	bars, err := plotter.NewBarChart(counts, vg.Points(12))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)
	return p.Save(plotSize, plotSize, path)
}

// PlotCosts saves a line plot of collapse costs in execution order.
// Non-finite costs are skipped.
func PlotCosts(path string, costs []float64) error {
	xys := make(plotter.XYs, 0, len(costs))
	for i, c := range costs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: c})
	}
	if len(xys) == 0 {
		return errors.New("no finite collapse costs to plot")
	}
	p := plot.New()
	p.Title.Text = "Collapse cost"
	p.X.Label.Text = "collapse"
	p.Y.Label.Text = "cost"
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(plotSize*3/2, plotSize, path)
}
