package analysis

import (
	"fmt"
	"math"

	"github.com/user/drone_analyzer_go/internal/parser"
)

// Metrics over generalSimulationData: one row per run.

// collisionRates returns, per row, colliding drones over the given launch
// column as a percentage. Rows with a missing count are skipped.
func collisionRates(t *parser.Table, denominator string) ([]int, []float64, error) {
	collisions, err := t.Floats(ColCollidingDrones)
	if err != nil {
		return nil, nil, err
	}
	launched, err := t.Floats(denominator)
	if err != nil {
		return nil, nil, err
	}
	var runCol []float64
	if t.HasColumn(ColRunIndex) {
		if runCol, err = t.Floats(ColRunIndex); err != nil {
			return nil, nil, err
		}
	}

	runs := make([]int, 0, len(collisions))
	rates := make([]float64, 0, len(collisions))
	for i := range collisions {
		if math.IsNaN(collisions[i]) || math.IsNaN(launched[i]) {
			continue
		}
		run := i
		if runCol != nil {
			r, ok := wholeNumber(runCol[i])
			if !ok {
				continue
			}
			run = r
		}
		runs = append(runs, run)
		rates = append(rates, SafeRate(collisions[i], launched[i]))
	}
	return runs, rates, nil
}

// CollisionRate is the mean per-run collision rate against drones launched in
// the stable window.
func CollisionRate(t *parser.Table) (ScalarWithInterval, error) {
	_, rates, err := collisionRates(t, ColLaunchedStableWindow)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	if len(rates) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("collision rate: %w", ErrNoData)
	}
	return Summarize(rates, Population), nil
}

// CollisionRatePerSimulation is CollisionRate against the total number of
// drones launched in each run.
func CollisionRatePerSimulation(t *parser.Table) (ScalarWithInterval, error) {
	_, rates, err := collisionRates(t, ColLaunchedTotal)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	if len(rates) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("collision rate per simulation: %w", ErrNoData)
	}
	return Summarize(rates, Population), nil
}

// CollisionRatePerExecution lists the stable-window collision rate of every run.
func CollisionRatePerExecution(t *parser.Table) (PerRunSeries, error) {
	runs, rates, err := collisionRates(t, ColLaunchedStableWindow)
	if err != nil {
		return PerRunSeries{}, err
	}
	return PerRunSeries{
		Runs:      runs,
		Values:    rates,
		Intervals: make([]float64, len(rates)),
	}, nil
}

// DroneDensityPerExecution lists the total drones launched in every run.
func DroneDensityPerExecution(t *parser.Table) (PerRunSeries, error) {
	runs, err := t.Ints(ColRunIndex)
	if err != nil {
		return PerRunSeries{}, err
	}
	launched, err := t.Ints(ColLaunchedTotal)
	if err != nil {
		return PerRunSeries{}, err
	}
	values := make([]float64, len(launched))
	for i, n := range launched {
		values[i] = float64(n)
	}
	return PerRunSeries{
		Runs:      runs,
		Values:    values,
		Intervals: make([]float64, len(values)),
	}, nil
}

// DroneDensityPerSimulation averages the drones launched per run.
func DroneDensityPerSimulation(t *parser.Table) (ScalarWithInterval, error) {
	launched, err := t.Ints(ColLaunchedTotal)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	if len(launched) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("drone density: %w", ErrNoData)
	}
	values := make([]float64, len(launched))
	for i, n := range launched {
		values[i] = float64(n)
	}
	return Summarize(values, Sample), nil
}
