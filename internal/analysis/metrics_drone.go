package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/user/drone_analyzer_go/internal/parser"
)

// Metrics over generalDroneData: one row per drone.

func missingID(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return true
	}
	return false
}

// successfulTrips returns the travel times of rows with a drone ID, with the
// run each row belongs to when withRuns is set.
func successfulTrips(t *parser.Table, withRuns bool) ([]float64, []int, error) {
	ids, err := t.Strings(ColDroneID)
	if err != nil {
		return nil, nil, err
	}
	times, err := t.Floats(ColTravelTimeStable)
	if err != nil {
		return nil, nil, err
	}
	var runCol []float64
	if withRuns {
		if runCol, err = t.Floats(ColRunIndex); err != nil {
			return nil, nil, err
		}
	}

	trips := make([]float64, 0, len(times))
	runs := make([]int, 0, len(times))
	for i := range times {
		if missingID(ids[i]) || math.IsNaN(times[i]) {
			continue
		}
		if withRuns {
			run, ok := wholeNumber(runCol[i])
			if !ok {
				continue
			}
			runs = append(runs, run)
		}
		trips = append(trips, times[i])
	}
	return trips, runs, nil
}

// DurationSuccessfulTripsPerExecution groups trip durations by run. Runs with
// fewer than two trips have no sample deviation and are omitted.
func DurationSuccessfulTripsPerExecution(t *parser.Table) (PerRunSeries, error) {
	trips, runs, err := successfulTrips(t, true)
	if err != nil {
		return PerRunSeries{}, err
	}

	groups := make(map[int][]float64)
	for i, v := range trips {
		run := runs[i]
		groups[run] = append(groups[run], v)
	}
	keys := make([]int, 0, len(groups))
	for run := range groups {
		keys = append(keys, run)
	}
	sort.Ints(keys)

	series := PerRunSeries{
		Runs:      make([]int, 0, len(keys)),
		Values:    make([]float64, 0, len(keys)),
		Intervals: make([]float64, 0, len(keys)),
	}
	for _, run := range keys {
		g := groups[run]
		if len(g) < 2 {
			continue
		}
		s := Summarize(g, Sample)
		series.Runs = append(series.Runs, run)
		series.Values = append(series.Values, s.Mean)
		series.Intervals = append(series.Intervals, s.Interval)
	}
	return series, nil
}

// DurationSuccessfulTripsPerSimulation averages every successful trip.
func DurationSuccessfulTripsPerSimulation(t *parser.Table) (ScalarWithInterval, error) {
	trips, _, err := successfulTrips(t, false)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	if len(trips) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("trip duration: %w", ErrNoData)
	}
	return Summarize(trips, Sample), nil
}

// FlightHeight extracts the maximum and minimum altitude of every drone that
// reports both.
func FlightHeight(t *parser.Table) (RawDistribution, error) {
	maxAlt, err := t.Floats(ColMaxAltitude)
	if err != nil {
		return RawDistribution{}, err
	}
	minAlt, err := t.Floats(ColMinAltitude)
	if err != nil {
		return RawDistribution{}, err
	}

	highs := make([]float64, 0, len(maxAlt))
	lows := make([]float64, 0, len(minAlt))
	for i := range maxAlt {
		if math.IsNaN(maxAlt[i]) || math.IsNaN(minAlt[i]) {
			continue
		}
		highs = append(highs, maxAlt[i])
		lows = append(lows, minAlt[i])
	}
	if len(highs) == 0 {
		return RawDistribution{}, fmt.Errorf("flight height: %w", ErrNoData)
	}
	return RawDistribution{
		Series: []NamedSeries{
			{Name: "Maximum", Values: highs},
			{Name: "Minimum", Values: lows},
		},
		Total: len(highs),
	}, nil
}

// TravelTimeStable returns the stable-window travel times with IQR outliers
// removed.
func TravelTimeStable(t *parser.Table) (RawDistribution, error) {
	times, err := t.Floats(ColTravelTimeStable)
	if err != nil {
		return RawDistribution{}, err
	}
	clean := DropNaN(times)
	if len(clean) == 0 {
		return RawDistribution{}, fmt.Errorf("travel time: %w", ErrNoData)
	}
	kept, bounds := IQRFilter(clean)
	return RawDistribution{
		Series:  []NamedSeries{{Name: "Travel time", Values: kept}},
		Total:   len(clean),
		Removed: len(clean) - len(kept),
		Bounds:  &bounds,
	}, nil
}

// MaxHeightPerSimulation averages the maximum altitude reached by each drone.
func MaxHeightPerSimulation(t *parser.Table) (ScalarWithInterval, error) {
	heights, err := t.Floats(ColMaxAltitude)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	heights = DropNaN(heights)
	if len(heights) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("maximum altitude: %w", ErrNoData)
	}
	return Summarize(heights, Population), nil
}
