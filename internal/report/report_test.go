package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/user/drone_analyzer_go/internal/analysis"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func sampleFigures(t *testing.T) []*Figure {
	t.Helper()
	labels := []string{"12/60", "24/60"}

	bars, err := BarWithInterval("Collision rate (%)", labels, []analysis.ScalarWithInterval{
		{Mean: 10, StdDev: 1, Interval: 0.5, N: 10},
		{Mean: 12, StdDev: 2, Interval: 0.9, N: 10},
	})
	require.NoError(t, err)

	perRun, err := GroupedPerRun("Collision rate per execution (%)", labels, []analysis.PerRunSeries{
		{Runs: []int{0, 1, 2}, Values: []float64{1, 2, 3}, Intervals: []float64{0, 0, 0}},
		{Runs: []int{1, 3}, Values: []float64{4, 5}, Intervals: []float64{0.1, 0.2}},
	})
	require.NoError(t, err)

	var breakdown analysis.CategoryBreakdown
	breakdown.Categories = analysis.SituationCategories()
	breakdown.Means = []float64{1, 2, 3, 4}
	breakdown.Intervals = []float64{0.1, 0.2, 0.3, 0.4}
	breakdown.SituationMeans[0] = 3
	breakdown.SituationMeans[20] = 1
	breakdown.Runs = 4
	categories, err := CategoryBars("Collisions per situation", labels[:1], []analysis.CategoryBreakdown{breakdown})
	require.NoError(t, err)
	heat, err := SituationHeatmap("Collisions per situation", labels[:1], []analysis.CategoryBreakdown{breakdown})
	require.NoError(t, err)

	dist := analysis.RawDistribution{
		Series: []analysis.NamedSeries{
			{Name: "Maximum", Values: []float64{100, 110, 120, 105, 98}},
			{Name: "Minimum", Values: []float64{10, 12, 9, 11, 15}},
		},
		Total: 5,
	}
	box, err := DistributionBoxPlot("Flight height", labels[:1], []analysis.RawDistribution{dist})
	require.NoError(t, err)

	travel := analysis.RawDistribution{
		Series:  []analysis.NamedSeries{{Name: "Travel time", Values: []float64{10, 11, 12, 12, 13, 14, 15, 15, 16, 20}}},
		Total:   11,
		Removed: 1,
	}
	hist, err := DefaultOptions().DistributionHistogram("Travel time", labels, []analysis.RawDistribution{travel, travel})
	require.NoError(t, err)

	scatter, err := PositionScatter("Collision positions", labels, []analysis.PointCloud{
		{X: []float64{1, 2, 3}, Y: []float64{3, 2, 1}},
		{X: []float64{4}, Y: []float64{4}},
	})
	require.NoError(t, err)

	return []*Figure{bars, perRun, categories, heat, box, hist, scatter}
}

func TestFiguresRenderPNG(t *testing.T) {
	for _, fig := range sampleFigures(t) {
		fig := fig
		t.Run(fig.Title, func(t *testing.T) {
			img, err := fig.PNG(0, 0)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(img, pngSignature))
		})
	}
}

func TestFiguresRenderHTML(t *testing.T) {
	for _, fig := range sampleFigures(t) {
		var buf bytes.Buffer
		require.NoError(t, fig.RenderHTML(&buf), fig.Title)
		assert.Contains(t, buf.String(), "echarts", fig.Title)
	}
}

func TestPlotsRejectEmptyInput(t *testing.T) {
	_, err := BarWithInterval("x", nil, nil)
	assert.Error(t, err)
	_, err = GroupedPerRun("x", []string{"a"}, []analysis.PerRunSeries{{}})
	assert.Error(t, err)
	_, err = DistributionBoxPlot("x", []string{"a"}, []analysis.RawDistribution{{}})
	assert.Error(t, err)
	_, err = PositionScatter("x", []string{"a"}, []analysis.PointCloud{{}})
	assert.Error(t, err)
}

func TestKDEScalesToCounts(t *testing.T) {
	xs := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	grid := make([]float64, 401)
	for i := range grid {
		grid[i] = -10 + float64(i)*0.05
	}
	density := kde(xs, grid, 1)
	var area float64
	for _, d := range density {
		area += d * 0.05
	}
	assert.InDelta(t, float64(len(xs)), area, 0.05)
	assert.Equal(t, []float64{0, 0}, kde([]float64{7}, []float64{6, 7}, 1))
}

func TestBinCounts(t *testing.T) {
	counts := binCounts([]float64{0, 0.5, 1, 9.99, 10}, 0, 10, 10)
	assert.Equal(t, []float64{2, 1, 0, 0, 0, 0, 0, 0, 0, 2}, counts)
}

func testMeta() Meta {
	return Meta{ID: "test", Mode: "complete", Simulations: []string{"12/60", "24/60"}, Generated: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

var testNotices = []Notice{
	{Level: LevelWarning, File: "notes.csv", Message: "file is not associated with any dataset kind and was skipped"},
	{Level: LevelError, File: "generalDroneData.csv", Metric: "flight_height", Message: "missing column 'altitude maxima atingida'"},
	{Level: LevelInfo, Metric: "collision_positions", Message: "no data available"},
}

func TestWritePDFReport(t *testing.T) {
	summary := []SummaryRow{{Kind: "generalSimulationData", Metric: "collision_rate", Title: "Collision rate (%)", Label: "12/60", Mean: 10, N: 2}}

	var buf bytes.Buffer
	require.NoError(t, WritePDFReport(&buf, testMeta(), sampleFigures(t), summary, testNotices))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	require.NoError(t, BuildPDFReport(path, testMeta(), nil, nil, nil))
	assert.FileExists(t, path)
}

func TestWriteXLSX(t *testing.T) {
	summary := []SummaryRow{{Kind: "generalSimulationData", Metric: "collision_rate", Title: "Collision rate (%)", Label: "12/60", File: "sim_generalSimulationData.csv", Mean: 10, StdDev: 1, Interval: 0.5, N: 4}}
	perRun := []PerRunRow{
		{Kind: "generalSimulationData", Metric: "collision_rate_per_execution", Label: "12/60", Run: 0, Value: 9},
		{Kind: "generalSimulationData", Metric: "collision_rate_per_execution", Label: "12/60", Run: 1, Value: 11},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, summary, perRun, testNotices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, perRunSheet, noticeSheet}, f.GetSheetList())
	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mean", rows[0][4])
	assert.Equal(t, "12/60", rows[1][3])
	assert.Equal(t, "File", rows[0][8])
	assert.Equal(t, "sim_generalSimulationData.csv", rows[1][8])

	rows, err = f.GetRows(perRunSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = f.GetRows(noticeSheet)
	require.NoError(t, err)
	assert.Len(t, rows, len(testNotices)+1)
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, testMeta(), sampleFigures(t), "https://cdn.example.org/echarts/"))
	html := buf.String()
	assert.Contains(t, html, "https://cdn.example.org/echarts/")
	assert.GreaterOrEqual(t, strings.Count(html, "echarts.init"), 7)

	assert.Error(t, RenderDashboard(&buf, testMeta(), nil, ""))
}

func TestNoticeString(t *testing.T) {
	assert.Equal(t, "warning: notes.csv: file is not associated with any dataset kind and was skipped", testNotices[0].String())
	assert.Equal(t, "error: generalDroneData.csv [flight_height]: missing column 'altitude maxima atingida'", testNotices[1].String())
	assert.Equal(t, "info: [collision_positions]: no data available", testNotices[2].String())
	assert.Equal(t, "info: done", Notice{Message: "done"}.String())
}
