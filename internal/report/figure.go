package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

const (
	// Sizes are in points.
	DefaultWidth  vg.Length = 800
	DefaultHeight vg.Length = 400

	defaultHistogramBins = 20
)

// Options tune figure construction.
type Options struct {
	HistogramBins int
}

// DefaultOptions are the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{HistogramBins: defaultHistogramBins}
}

func (o Options) bins() int {
	if o.HistogramBins <= 0 {
		return defaultHistogramBins
	}
	return o.HistogramBins
}

// Figure is one chart of a (kind, metric) group, drawn both as a static plot
// for documents and as an interactive chart for HTML pages.
type Figure struct {
	Kind   string
	Metric string
	Title  string
	Plot   *plot.Plot

	chart components.Charter
}

func newFigure(title string, p *plot.Plot, chart components.Charter) *Figure {
	return &Figure{Title: title, Plot: p, chart: chart}
}

// PNG renders the static plot.
func (f *Figure) PNG(width, height vg.Length) ([]byte, error) {
	if f.Plot == nil {
		return nil, fmt.Errorf("figure %q has no plot", f.Title)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	writer, err := f.Plot.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHTML writes a standalone page holding the interactive chart.
func (f *Figure) RenderHTML(w io.Writer) error {
	if f.chart == nil {
		return fmt.Errorf("figure %q has no chart", f.Title)
	}
	page := components.NewPage()
	page.PageTitle = f.Title
	page.AddCharts(f.chart)
	return page.Render(w)
}

// SummaryRow is one scalar result in report tables.
type SummaryRow struct {
	Kind     string
	Metric   string
	Title    string
	Label    string
	File     string
	Mean     float64
	StdDev   float64
	Interval float64
	N        int
}

// PerRunRow is one run of a per-run series.
type PerRunRow struct {
	Kind     string
	Metric   string
	Title    string
	Label    string
	File     string
	Run      int
	Value    float64
	Interval float64
}
