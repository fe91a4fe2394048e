package analysis

// Shape names the result variant a metric produces.
type Shape int

const (
	ShapeScalar Shape = iota + 1
	ShapePerRun
	ShapeDistribution
	ShapeCategories
	ShapePoints
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapePerRun:
		return "per-run"
	case ShapeDistribution:
		return "distribution"
	case ShapeCategories:
		return "categories"
	case ShapePoints:
		return "points"
	}
	return "unknown"
}

// Value is the result of one metric over one file. The set of implementations
// is closed to this package.
type Value interface {
	Shape() Shape
	isValue()
}

// ScalarWithInterval is a mean with its standard deviation and 95% half-width.
type ScalarWithInterval struct {
	Mean     float64
	StdDev   float64
	Interval float64
	N        int // Samples the statistic was computed over
}

// PerRunSeries holds one value per simulation run, ordered by run index.
type PerRunSeries struct {
	Runs      []int
	Values    []float64
	Intervals []float64
}

// NamedSeries is a labelled set of raw observations.
type NamedSeries struct {
	Name   string
	Values []float64
}

// RawDistribution carries raw per-record values for distribution plots.
type RawDistribution struct {
	Series  []NamedSeries
	Total   int        // Observations before filtering
	Removed int        // Observations dropped as outliers
	Bounds  *IQRBounds // Set when the series was IQR-filtered
}

// CategoryBreakdown is the per-situation and per-category collision summary.
type CategoryBreakdown struct {
	Categories         []string
	Means              []float64
	Intervals          []float64
	SituationMeans     [NumSituations]float64
	SituationIntervals [NumSituations]float64
	Runs               int // Runs with at least one classified collision
}

// PointCloud is a set of 2-D coordinates.
type PointCloud struct {
	X []float64
	Y []float64
}

func (ScalarWithInterval) Shape() Shape { return ShapeScalar }
func (PerRunSeries) Shape() Shape       { return ShapePerRun }
func (RawDistribution) Shape() Shape    { return ShapeDistribution }
func (CategoryBreakdown) Shape() Shape  { return ShapeCategories }
func (PointCloud) Shape() Shape         { return ShapePoints }

func (ScalarWithInterval) isValue() {}
func (PerRunSeries) isValue()       {}
func (RawDistribution) isValue()    {}
func (CategoryBreakdown) isValue()  {}
func (PointCloud) isValue()         {}

// Len is the number of runs in the series.
func (s PerRunSeries) Len() int {
	return len(s.Runs)
}

// Count is the number of retained observations across all series.
func (d RawDistribution) Count() int {
	n := 0
	for _, s := range d.Series {
		n += len(s.Values)
	}
	return n
}
