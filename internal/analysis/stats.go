package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// Z95 is the normal quantile used for 95% confidence half-widths.
	Z95 = 1.96
	// IQRFactor scales the interquartile range when fencing outliers.
	IQRFactor = 1.5
)

// ConfidenceHalfWidth returns 1.96 * std / sqrt(n). It is 0 when there are no
// samples or the deviation is undefined.
func ConfidenceHalfWidth(std float64, n int) float64 {
	if n <= 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return 0
	}
	return Z95 * std / math.Sqrt(float64(n))
}

// SafeRate returns num/den as a percentage, or 0 when den is 0.
func SafeRate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Mean is the arithmetic mean, NaN for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// PopulationStdDev divides by n (numpy's default).
func PopulationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// SampleStdDev divides by n-1 (pandas' default). Fewer than two samples give 0.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(xs, nil)
	return std
}

// Estimator selects the standard deviation flavour used by a summary.
type Estimator int

const (
	Population Estimator = iota
	Sample
)

// Summarize builds a ScalarWithInterval over xs. NaN values are ignored.
func Summarize(xs []float64, est Estimator) ScalarWithInterval {
	xs = DropNaN(xs)
	if len(xs) == 0 {
		return ScalarWithInterval{}
	}
	std := PopulationStdDev(xs)
	if est == Sample {
		std = SampleStdDev(xs)
	}
	return ScalarWithInterval{
		Mean:     Mean(xs),
		StdDev:   std,
		Interval: ConfidenceHalfWidth(std, len(xs)),
		N:        len(xs),
	}
}

// DropNaN returns a copy of xs without NaN entries.
func DropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Quantile interpolates linearly between the closest ranks of sorted
// (h = (n-1)p), matching pandas' default.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// IQRBounds are the Tukey fences derived from the quartiles of a sample.
type IQRBounds struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// IQR is the interquartile range.
func (b IQRBounds) IQR() float64 {
	return b.Q3 - b.Q1
}

// Contains reports whether v lies within the fences, inclusive.
func (b IQRBounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Fences computes quartiles and outlier fences of xs (NaN ignored).
func Fences(xs []float64) IQRBounds {
	sorted := DropNaN(xs)
	sort.Float64s(sorted)
	b := IQRBounds{Q1: Quantile(sorted, 0.25), Q3: Quantile(sorted, 0.75)}
	b.Lower = b.Q1 - IQRFactor*b.IQR()
	b.Upper = b.Q3 + IQRFactor*b.IQR()
	return b
}

// IQRFilter keeps the values of xs inside the Tukey fences, in input order.
// NaN values are dropped before the quartiles are computed.
func IQRFilter(xs []float64) ([]float64, IQRBounds) {
	clean := DropNaN(xs)
	bounds := Fences(clean)
	kept := make([]float64, 0, len(clean))
	for _, v := range clean {
		if bounds.Contains(v) {
			kept = append(kept, v)
		}
	}
	return kept, bounds
}
