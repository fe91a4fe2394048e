package report

import (
	"fmt"
	"log"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/user/drone_analyzer_go/internal/analysis"
)

// situationGrid lays out mean collisions with one column per label and one
// row per situation.
type situationGrid struct {
	values []analysis.CategoryBreakdown
}

func (g situationGrid) Dims() (c, r int) { return len(g.values), analysis.NumSituations }
func (g situationGrid) Z(c, r int) float64 {
	return g.values[c].SituationMeans[r]
}
func (g situationGrid) X(c int) float64 { return float64(c) }
func (g situationGrid) Y(r int) float64 { return float64(r) }

func (g situationGrid) extent() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			lo = math.Min(lo, g.Z(i, j))
			hi = math.Max(hi, g.Z(i, j))
		}
	}
	return lo, hi
}

// SituationHeatmap shows the mean collisions of every situation for each
// label. Rows are labelled by the pair of trip stages involved.
func SituationHeatmap(title string, labels []string, values []analysis.CategoryBreakdown) (*Figure, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no situation data to plot heatmap")
	}
	title = title + " by stage pair"
	grid := situationGrid{values: values}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Simulation"
	p.Y.Label.Text = "Stages of the colliding pair"

	rows := make([]string, analysis.NumSituations)
	yTicks := make([]plot.Tick, analysis.NumSituations)
	for i := range yTicks {
		rows[i] = analysis.SituationLabel(i)
		yTicks[i] = plot.Tick{Value: float64(i), Label: rows[i]}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(analysis.NumSituations) - 0.5

	xTicks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		xTicks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = -0.5
	p.X.Max = float64(len(labels)) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	lo, hi := grid.extent()
	if hi == lo {
		hi = lo + 1
	}
	hm.Min, hm.Max = lo, hi
	p.Add(hm)
	log.Printf("Heatmap %s: min=%.2f max=%.2f", title, hm.Min, hm.Max)

	data := make([]opts.HeatMapData, 0, len(values)*analysis.NumSituations)
	for c := range values {
		for r := 0; r < analysis.NumSituations; r++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, grid.Z(c, r)}})
		}
	}
	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#fff5eb", "#fdae6b", "#e6550d", "#7f2704"}},
		}),
	)
	chart.AddSeries("mean collisions", data)
	return newFigure(title, p, chart), nil
}
