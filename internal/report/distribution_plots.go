package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/drone_analyzer_go/internal/analysis"
)

const kdePoints = 200

func seriesName(label, name string, multi bool) string {
	if !multi || name == "" {
		if label == "" {
			return name
		}
		return label
	}
	return fmt.Sprintf("%s - %s", label, name)
}

// boxSummary returns min, Q1, median, Q3 and max in the order echarts expects.
func boxSummary(values []float64) ([]float64, error) {
	data := stats.Float64Data(values)
	lo, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	q, err := stats.Quartile(data)
	if err != nil {
		// Quartile needs more than one observation.
		return []float64{lo, lo, lo, hi, hi}, nil
	}
	return []float64{lo, q.Q1, q.Q2, q.Q3, hi}, nil
}

// DistributionBoxPlot draws one box per (label, series) pair.
func DistributionBoxPlot(title string, labels []string, values []analysis.RawDistribution) (*Figure, error) {
	p := newPlot(title, "", "Value")
	var names []string
	var boxes [][]float64
	for i, v := range values {
		for _, s := range v.Series {
			if len(s.Values) == 0 {
				continue
			}
			names = append(names, seriesName(labels[i], s.Name, true))
			boxes = append(boxes, s.Values)
		}
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("no observations to plot")
	}

	width := vg.Points(math.Max(8, math.Min(60, 400/float64(len(boxes)))))
	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	chart.SetXAxis(names)
	data := make([]opts.BoxPlotData, 0, len(boxes))
	for i, vals := range boxes {
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(vals))
		if err != nil {
			return nil, fmt.Errorf("failed to create box for %s: %w", names[i], err)
		}
		box.FillColor = seriesColor(i)
		p.Add(box)

		summary, err := boxSummary(vals)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize %s: %w", names[i], err)
		}
		data = append(data, opts.BoxPlotData{Name: names[i], Value: summary})
	}
	chart.AddSeries(title, data)
	p.NominalX(names...)
	return newFigure(title, p, chart), nil
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// kde evaluates a Gaussian kernel density estimate of xs over grid, scaled so
// the curve overlays a histogram of the given bin width. The bandwidth
// follows Scott's rule.
func kde(xs, grid []float64, binWidth float64) []float64 {
	out := make([]float64, len(grid))
	n := float64(len(xs))
	if n < 2 {
		return out
	}
	sd := stat.StdDev(xs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return out
	}
	bw := sd * math.Pow(n, -0.2)
	kernels := make([]distuv.Normal, len(xs))
	for i, x := range xs {
		kernels[i] = distuv.Normal{Mu: x, Sigma: bw}
	}
	for g, x := range grid {
		var d float64
		for _, k := range kernels {
			d += k.Prob(x)
		}
		out[g] = d * binWidth
	}
	return out
}

func valueRange(series [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// binCounts counts xs into bins equal-width bins over [lo, hi].
func binCounts(xs []float64, lo, hi float64, bins int) []float64 {
	counts := make([]float64, bins)
	w := (hi - lo) / float64(bins)
	for _, x := range xs {
		i := bins - 1
		if w > 0 {
			i = int((x - lo) / w)
		}
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return counts
}

// DistributionHistogram draws a histogram with a density curve for every
// (label, series) pair. Outliers removed upstream are noted in the legend.
func (o Options) DistributionHistogram(title string, labels []string, values []analysis.RawDistribution) (*Figure, error) {
	bins := o.bins()
	var names []string
	var all [][]float64
	for i, v := range values {
		for _, s := range v.Series {
			if len(s.Values) == 0 {
				continue
			}
			name := seriesName(labels[i], s.Name, len(v.Series) > 1)
			if v.Removed > 0 {
				name = fmt.Sprintf("%s (%d outliers removed)", name, v.Removed)
			}
			names = append(names, name)
			all = append(all, s.Values)
		}
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no observations to plot")
	}

	lo, hi := valueRange(all)
	if hi == lo {
		hi = lo + 1
	}
	binWidth := (hi - lo) / float64(bins)
	grid := make([]float64, kdePoints)
	for i := range grid {
		grid[i] = lo + (hi-lo)*float64(i)/float64(kdePoints-1)
	}

	p := newPlot(title, "Value", "Count")
	centers := make([]string, bins)
	for i := range centers {
		centers[i] = fmt.Sprintf("%.1f", lo+binWidth*(float64(i)+0.5))
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(centers)
	line := charts.NewLine()
	line.SetXAxis(centers)

	for i, xs := range all {
		h, err := plotter.NewHist(plotter.Values(xs), bins)
		if err != nil {
			return nil, fmt.Errorf("failed to create histogram for %s: %w", names[i], err)
		}
		c := seriesColor(i)
		h.FillColor = withAlpha(c, 140)
		h.LineStyle.Width = vg.Length(0)
		p.Add(h)
		p.Legend.Add(names[i], h)

		var width float64
		if len(h.Bins) > 0 {
			width = h.Bins[0].Max - h.Bins[0].Min
		}
		density := kde(xs, grid, width)
		pts := make(plotter.XYs, len(grid))
		for g := range grid {
			pts[g] = plotter.XY{X: grid[g], Y: density[g]}
		}
		curve, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create density for %s: %w", names[i], err)
		}
		curve.Color = c
		curve.Width = vg.Points(1.5)
		p.Add(curve)

		counts := binCounts(xs, lo, hi, bins)
		barData := make([]opts.BarData, bins)
		for b, n := range counts {
			barData[b] = opts.BarData{Value: n}
		}
		bar.AddSeries(names[i], barData)

		atCenters := make([]float64, bins)
		for b := range atCenters {
			atCenters[b] = lo + binWidth*(float64(b)+0.5)
		}
		shared := kde(xs, atCenters, binWidth)
		lineData := make([]opts.LineData, bins)
		for b, d := range shared {
			lineData[b] = opts.LineData{Value: d}
		}
		line.AddSeries(names[i]+" density", lineData, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}
	bar.Overlap(line)

	p.Legend.Top = true
	return newFigure(title, p, bar), nil
}

// PositionScatter draws every point cloud in its own colour.
func PositionScatter(title string, labels []string, values []analysis.PointCloud) (*Figure, error) {
	p := newPlot(title, "x", "z")
	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "z", NameLocation: "middle", NameGap: 30}),
	)

	drawn := 0
	for i, v := range values {
		if len(v.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(v.X))
		data := make([]opts.ScatterData, len(v.X))
		for j := range v.X {
			pts[j] = plotter.XY{X: v.X[j], Y: v.Y[j]}
			data[j] = opts.ScatterData{Value: []interface{}{v.X[j], v.Y[j]}}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter for %s: %w", labels[i], err)
		}
		sc.GlyphStyle.Color = seriesColor(i)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(labels[i], sc)
		chart.AddSeries(labels[i], data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("no points to plot")
	}
	p.Legend.Top = true
	return newFigure(title, p, chart), nil
}
