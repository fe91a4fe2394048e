package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceHalfWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ConfidenceHalfWidth(3, 0))
	assert.Equal(t, 0.0, ConfidenceHalfWidth(3, -1))
	assert.Equal(t, 0.0, ConfidenceHalfWidth(math.NaN(), 10))
	assert.InDelta(t, 1.96, ConfidenceHalfWidth(2, 4), 1e-12)
	assert.InDelta(t, 1.96*5/math.Sqrt(7), ConfidenceHalfWidth(5, 7), 1e-12)
}

func TestSafeRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, SafeRate(5, 0))
	assert.Equal(t, 0.0, SafeRate(0, 0))
	assert.InDelta(t, 12.5, SafeRate(1, 8), 1e-12)
}

func TestStdDevFlavours(t *testing.T) {
	t.Parallel()

	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, PopulationStdDev(xs), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), SampleStdDev(xs), 1e-12)

	assert.Equal(t, 0.0, PopulationStdDev(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("population", func(t *testing.T) {
		s := Summarize([]float64{10, 10}, Population)
		assert.Equal(t, ScalarWithInterval{Mean: 10, StdDev: 0, Interval: 0, N: 2}, s)
	})

	t.Run("sample ignores NaN", func(t *testing.T) {
		s := Summarize([]float64{10, math.NaN(), 20, 30}, Sample)
		assert.Equal(t, 3, s.N)
		assert.InDelta(t, 20, s.Mean, 1e-12)
		assert.InDelta(t, 10, s.StdDev, 1e-12)
		assert.InDelta(t, 1.96*10/math.Sqrt(3), s.Interval, 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, ScalarWithInterval{}, Summarize(nil, Sample))
	})
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.75))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestIQRFilter(t *testing.T) {
	t.Parallel()

	t.Run("drops outliers and keeps order", func(t *testing.T) {
		kept, b := IQRFilter([]float64{4, 100, 1, 3, math.NaN(), 2})
		assert.InDelta(t, 2, b.Q1, 1e-12)
		assert.InDelta(t, 4, b.Q3, 1e-12)
		assert.InDelta(t, -1, b.Lower, 1e-12)
		assert.InDelta(t, 7, b.Upper, 1e-12)
		assert.Equal(t, []float64{4, 1, 3, 2}, kept)
	})

	t.Run("retained values lie within the fences", func(t *testing.T) {
		xs := []float64{12, 15, 11, 90, 14, 13, -40, 16, 15, 14, 13, 12, 200}
		kept, b := IQRFilter(xs)
		iqr := b.Q3 - b.Q1
		for _, v := range kept {
			assert.GreaterOrEqual(t, v, b.Q1-1.5*iqr)
			assert.LessOrEqual(t, v, b.Q3+1.5*iqr)
		}
		removed := 0
		for _, v := range xs {
			if !b.Contains(v) {
				removed++
			}
		}
		assert.Equal(t, len(xs)-len(kept), removed)
		assert.NotContains(t, kept, 200.0)
		assert.NotContains(t, kept, -40.0)
	})

	t.Run("constant sample keeps everything", func(t *testing.T) {
		kept, b := IQRFilter([]float64{5, 5, 5})
		require.Len(t, kept, 3)
		assert.Equal(t, 0.0, b.IQR())
	})
}
