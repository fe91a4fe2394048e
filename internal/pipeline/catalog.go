package pipeline

import (
	"fmt"

	"github.com/user/drone_analyzer_go/internal/analysis"
	"github.com/user/drone_analyzer_go/internal/parser"
	"github.com/user/drone_analyzer_go/internal/report"
)

// PlotFunc draws one figure from every value of a (kind, metric) group.
// labels[i] names values[i].
type PlotFunc[V analysis.Value] func(title string, labels []string, values []V) (*report.Figure, error)

// Entry pairs a metric with the plot functions that consume its result.
type Entry struct {
	Kind   parser.Kind
	Metric string
	Title  string
	Shape  analysis.Shape

	compute func(*parser.Table) (analysis.Value, error)
	plot    func(title string, labels []string, values []analysis.Value) ([]*report.Figure, error)
}

// bind ties a metric producing V to consumers of V, so a mismatch between
// the two is a compile error rather than a render-time failure.
func bind[V analysis.Value](kind parser.Kind, metric, title string, compute func(*parser.Table) (V, error), plots ...PlotFunc[V]) Entry {
	var zero V
	return Entry{
		Kind:   kind,
		Metric: metric,
		Title:  title,
		Shape:  zero.Shape(),
		compute: func(t *parser.Table) (analysis.Value, error) {
			v, err := compute(t)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		plot: func(title string, labels []string, values []analysis.Value) ([]*report.Figure, error) {
			typed := make([]V, len(values))
			for i, v := range values {
				tv, ok := v.(V)
				if !ok {
					return nil, fmt.Errorf("%s: value %d is %s, want %s", metric, i, v.Shape(), zero.Shape())
				}
				typed[i] = tv
			}
			figures := make([]*report.Figure, 0, len(plots))
			for _, p := range plots {
				fig, err := p(title, labels, typed)
				if err != nil {
					return figures, err
				}
				fig.Kind = kind.String()
				fig.Metric = metric
				figures = append(figures, fig)
			}
			return figures, nil
		},
	}
}

// Compute runs the metric over one table.
func (e *Entry) Compute(t *parser.Table) (analysis.Value, error) {
	return e.compute(t)
}

// Plot hands the collected values of a group to the bound plot functions.
func (e *Entry) Plot(labels []string, values []analysis.Value) ([]*report.Figure, error) {
	return e.plot(e.Title, labels, values)
}

// Catalog is the dispatch table from dataset kind to its ordered metrics.
type Catalog struct {
	collision  []Entry
	simulation []Entry
	drone      []Entry
}

// NewCatalog registers every metric, drawing figures with the given options.
func NewCatalog(opts report.Options) *Catalog {
	return &Catalog{
		collision: []Entry{
			bind(parser.KindDroneCollision, "collisions_per_situation", "Collisions per situation",
				analysis.CollisionsPerSituation, report.CategoryBars, report.SituationHeatmap),
			bind(parser.KindDroneCollision, "detected_drones_at_collision", "Drones detected at collision",
				analysis.DetectedDronesAtCollision, report.BarWithInterval),
			bind(parser.KindDroneCollision, "collision_positions", "Collision positions (x, z)",
				analysis.CollisionPositions, report.PositionScatter),
		},
		simulation: []Entry{
			bind(parser.KindGeneralSimulation, "collision_rate", "Collision rate (%)",
				analysis.CollisionRate, report.BarWithInterval),
			bind(parser.KindGeneralSimulation, "collision_rate_per_execution", "Collision rate per execution (%)",
				analysis.CollisionRatePerExecution, report.GroupedPerRun),
			bind(parser.KindGeneralSimulation, "collision_rate_per_simulation", "Collision rate over all launched drones (%)",
				analysis.CollisionRatePerSimulation, report.BarWithInterval),
			bind(parser.KindGeneralSimulation, "drone_density_per_execution", "Drones launched per execution",
				analysis.DroneDensityPerExecution, report.GroupedPerRun),
			bind(parser.KindGeneralSimulation, "drone_density_per_simulation", "Drones launched per simulation",
				analysis.DroneDensityPerSimulation, report.BarWithInterval),
		},
		drone: []Entry{
			bind(parser.KindGeneralDrone, "duration_successful_trips_per_execution", "Successful trip duration per execution",
				analysis.DurationSuccessfulTripsPerExecution, report.GroupedPerRun),
			bind(parser.KindGeneralDrone, "duration_successful_trips_per_simulation", "Successful trip duration per simulation",
				analysis.DurationSuccessfulTripsPerSimulation, report.BarWithInterval),
			bind(parser.KindGeneralDrone, "flight_height", "Flight height",
				analysis.FlightHeight, report.DistributionBoxPlot),
			bind(parser.KindGeneralDrone, "travel_time_stable", "Travel time in the stable window",
				analysis.TravelTimeStable, opts.DistributionHistogram),
			bind(parser.KindGeneralDrone, "max_height_per_simulation", "Maximum altitude per simulation",
				analysis.MaxHeightPerSimulation, report.BarWithInterval),
		},
	}
}

// Entries returns the metrics registered for kind, in display order.
func (c *Catalog) Entries(kind parser.Kind) []Entry {
	switch kind {
	case parser.KindDroneCollision:
		return c.collision
	case parser.KindGeneralSimulation:
		return c.simulation
	case parser.KindGeneralDrone:
		return c.drone
	case parser.KindUnknown:
		return nil
	}
	return nil
}

// lookup finds a registered metric by kind and name.
func (c *Catalog) lookup(kind parser.Kind, metric string) (*Entry, bool) {
	entries := c.Entries(kind)
	for i := range entries {
		if entries[i].Metric == metric {
			return &entries[i], true
		}
	}
	return nil, false
}
