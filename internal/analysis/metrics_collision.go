package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/user/drone_analyzer_go/internal/parser"
)

// Metrics over droneCollisionData: one row per colliding pair.

// CollisionsPerSituation counts classified collisions per run and averages the
// counts across runs. Category figures are sums over their member situations.
func CollisionsPerSituation(t *parser.Table) (CategoryBreakdown, error) {
	first, err := t.Floats(ColStagePair1)
	if err != nil {
		return CategoryBreakdown{}, err
	}
	second, err := t.Floats(ColStagePair2)
	if err != nil {
		return CategoryBreakdown{}, err
	}
	runCol, err := t.Floats(ColRunIndex)
	if err != nil {
		return CategoryBreakdown{}, err
	}

	counts := make(map[int]*[NumSituations]float64)
	for i := range first {
		a, okA := wholeNumber(first[i])
		b, okB := wholeNumber(second[i])
		run, okRun := wholeNumber(runCol[i])
		if !okA || !okB || !okRun {
			continue
		}
		idx, ok := ClassifySituation(a, b)
		if !ok {
			continue
		}
		if counts[run] == nil {
			counts[run] = new([NumSituations]float64)
		}
		counts[run][idx]++
	}

	runs := make([]int, 0, len(counts))
	for run := range counts {
		runs = append(runs, run)
	}
	sort.Ints(runs)

	var out CategoryBreakdown
	out.Runs = len(runs)
	column := make([]float64, len(runs))
	for s := 0; s < NumSituations; s++ {
		for i, run := range runs {
			column[i] = counts[run][s]
		}
		if len(runs) == 0 {
			continue
		}
		std := SampleStdDev(column)
		out.SituationMeans[s] = Mean(column)
		out.SituationIntervals[s] = ConfidenceHalfWidth(std, len(runs))
	}

	for _, c := range situationCategories {
		var mean, interval float64
		for _, idx := range c.Members {
			mean += out.SituationMeans[idx]
			interval += out.SituationIntervals[idx]
		}
		out.Categories = append(out.Categories, c.Name)
		out.Means = append(out.Means, mean)
		out.Intervals = append(out.Intervals, interval)
	}
	return out, nil
}

// DetectedDronesAtCollision averages how many drones were detected at the
// moment of each collision.
func DetectedDronesAtCollision(t *parser.Table) (ScalarWithInterval, error) {
	detected, err := t.Floats(ColDetectedDrones)
	if err != nil {
		return ScalarWithInterval{}, err
	}
	detected = DropNaN(detected)
	if len(detected) == 0 {
		return ScalarWithInterval{}, fmt.Errorf("detected drones: %w", ErrNoData)
	}
	return Summarize(detected, Population), nil
}

// CollisionPositions returns the horizontal (x, z) position of each collision.
func CollisionPositions(t *parser.Table) (PointCloud, error) {
	xs, err := t.Floats(ColCollisionPosX)
	if err != nil {
		return PointCloud{}, err
	}
	zs, err := t.Floats(ColCollisionPosZ)
	if err != nil {
		return PointCloud{}, err
	}
	var pc PointCloud
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(zs[i]) {
			continue
		}
		pc.X = append(pc.X, xs[i])
		pc.Y = append(pc.Y, zs[i])
	}
	if len(pc.X) == 0 {
		return PointCloud{}, fmt.Errorf("collision positions: %w", ErrNoData)
	}
	return pc, nil
}
