package report

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/drone_analyzer_go/internal/analysis"
)

var plotColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},  // Blue
	color.RGBA{R: 255, G: 127, B: 14, A: 255},  // Orange
	color.RGBA{R: 44, G: 160, B: 44, A: 255},   // Green
	color.RGBA{R: 214, G: 39, B: 40, A: 255},   // Red
	color.RGBA{R: 148, G: 103, B: 189, A: 255}, // Purple
	color.RGBA{G: 128, B: 128, A: 255},         // Teal
}

func seriesColor(i int) color.Color {
	return plotColors[i%len(plotColors)]
}

// barSeries is one coloured set of bars, one bar per group.
type barSeries struct {
	Name      string
	Values    []float64
	Intervals []float64
}

type barErrors struct {
	plotter.XYs
	plotter.YErrors
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// groupedBars draws len(series) bars side by side for every group, with
// symmetric error bars where intervals are non-zero.
func groupedBars(p *plot.Plot, groups []string, series []barSeries) error {
	n, k := len(groups), len(series)
	if n == 0 || k == 0 {
		return fmt.Errorf("nothing to draw")
	}
	width := vg.Points(math.Max(2, math.Min(60, 500/float64(n*k))))
	slot := 0.8 / float64(k)

	for s, ser := range series {
		bars, err := plotter.NewBarChart(plotter.Values(ser.Values), width)
		if err != nil {
			return fmt.Errorf("failed to create bars for %s: %w", ser.Name, err)
		}
		bars.XMin = -0.4 + slot*(float64(s)+0.5)
		bars.Color = seriesColor(s)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		if k > 1 || ser.Name != "" {
			p.Legend.Add(ser.Name, bars)
		}

		errs := barErrors{XYs: make(plotter.XYs, 0, n), YErrors: make(plotter.YErrors, 0, n)}
		for i, v := range ser.Values {
			ci := 0.0
			if i < len(ser.Intervals) {
				ci = ser.Intervals[i]
			}
			if ci == 0 || math.IsNaN(ci) {
				continue
			}
			errs.XYs = append(errs.XYs, plotter.XY{X: bars.XMin + float64(i), Y: v})
			errs.YErrors = append(errs.YErrors, struct{ Low, High float64 }{ci, ci})
		}
		if len(errs.XYs) > 0 {
			eb, err := plotter.NewYErrorBars(errs)
			if err != nil {
				return fmt.Errorf("failed to create error bars for %s: %w", ser.Name, err)
			}
			eb.LineStyle.Width = vg.Points(1)
			p.Add(eb)
		}
	}

	p.NominalX(groups...)
	p.X.Min = -0.5
	p.X.Max = float64(n) - 0.5
	p.Y.Min = math.Min(0, p.Y.Min)
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	return nil
}

// echartsBars is the interactive counterpart of groupedBars. Intervals are
// shown in the tooltip name of each bar.
func echartsBars(title, yLabel string, groups []string, series []barSeries) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(series) > 1), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
	)
	bar.SetXAxis(groups)
	for _, ser := range series {
		data := make([]opts.BarData, len(ser.Values))
		for i, v := range ser.Values {
			name := groups[i]
			if i < len(ser.Intervals) && ser.Intervals[i] != 0 {
				name = fmt.Sprintf("%s (±%.3f)", groups[i], ser.Intervals[i])
			}
			data[i] = opts.BarData{Name: name, Value: v}
		}
		bar.AddSeries(ser.Name, data)
	}
	return bar
}

// BarWithInterval draws one bar per label at the mean with its 95% interval.
func BarWithInterval(title string, labels []string, values []analysis.ScalarWithInterval) (*Figure, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to plot")
	}
	ser := barSeries{Values: make([]float64, len(values)), Intervals: make([]float64, len(values))}
	for i, v := range values {
		ser.Values[i] = v.Mean
		ser.Intervals[i] = v.Interval
	}

	p := newPlot(title, "", "Mean (95% CI)")
	if err := groupedBars(p, labels, []barSeries{ser}); err != nil {
		return nil, err
	}
	return newFigure(title, p, echartsBars(title, "Mean", labels, []barSeries{ser})), nil
}

// GroupedPerRun draws one bar group per run and one series per label. A run
// missing from a series is drawn as 0.
func GroupedPerRun(title string, labels []string, values []analysis.PerRunSeries) (*Figure, error) {
	runSet := make(map[int]bool)
	for _, v := range values {
		for _, r := range v.Runs {
			runSet[r] = true
		}
	}
	if len(runSet) == 0 {
		return nil, fmt.Errorf("no runs to plot")
	}
	runs := make([]int, 0, len(runSet))
	for r := range runSet {
		runs = append(runs, r)
	}
	sort.Ints(runs)
	pos := make(map[int]int, len(runs))
	groups := make([]string, len(runs))
	for i, r := range runs {
		pos[r] = i
		groups[i] = fmt.Sprintf("%d", r)
	}

	series := make([]barSeries, len(values))
	for s, v := range values {
		ser := barSeries{Name: labels[s], Values: make([]float64, len(runs)), Intervals: make([]float64, len(runs))}
		for j, r := range v.Runs {
			ser.Values[pos[r]] = v.Values[j]
			if j < len(v.Intervals) {
				ser.Intervals[pos[r]] = v.Intervals[j]
			}
		}
		series[s] = ser
	}

	p := newPlot(title, "Execution", "Value")
	if err := groupedBars(p, groups, series); err != nil {
		return nil, err
	}
	return newFigure(title, p, echartsBars(title, "Value", groups, series)), nil
}

// CategoryBars draws the situation categories with one series per label.
func CategoryBars(title string, labels []string, values []analysis.CategoryBreakdown) (*Figure, error) {
	categories := analysis.SituationCategories()
	series := make([]barSeries, len(values))
	for s, v := range values {
		ser := barSeries{Name: labels[s], Values: make([]float64, len(categories)), Intervals: make([]float64, len(categories))}
		for c, name := range v.Categories {
			for i, want := range categories {
				if want == name {
					ser.Values[i] = v.Means[c]
					ser.Intervals[i] = v.Intervals[c]
				}
			}
		}
		series[s] = ser
	}

	p := newPlot(title, "Situation", "Mean collisions per execution")
	if err := groupedBars(p, categories, series); err != nil {
		return nil, err
	}
	return newFigure(title, p, echartsBars(title, "Collisions", categories, series)), nil
}
