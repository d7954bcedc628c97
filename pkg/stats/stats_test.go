package stats

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ewmaReference builds the dense lower-triangular weight matrix and applies it row by row
func ewmaReference(values []float64, alpha float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var num, den float64
		for j := 0; j <= i; j++ {
			w := math.Pow(1-alpha, float64(i-j))
			num += values[j] * w
			den += w
		}
		out[i] = num / den
	}
	return out
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.625, Mean([]float64{1, 0, 0.5, 1}), 1e-12)
}

func TestCumulativeMean(t *testing.T) {
	got := slices.Collect(CumulativeMean([]float64{1, 0, 0.5, 1}))
	want := []float64{1.0, 0.5, 0.5, 0.625}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestCumulativeMeanStopsEarly(t *testing.T) {
	var seen int
	for range CumulativeMean([]float64{1, 2, 3, 4}) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestEWMAMatchesWeightMatrix(t *testing.T) {
	series := []float64{1200, 1150, 1180, 1240, 1210, 1300, 1275, 1190}
	for _, alpha := range []float64{0.05, 0.2, DefaultAlpha(len(series)), 0.5, 0.9, 1} {
		got, err := EWMA(series, alpha)
		require.NoError(t, err)
		want := ewmaReference(series, alpha)
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-9, "alpha %v index %d", alpha, i)
		}
	}
}

func TestEWMASingleElement(t *testing.T) {
	for _, alpha := range []float64{0.01, 0.3, 1} {
		got, err := EWMA([]float64{42.5}, alpha)
		require.NoError(t, err)
		assert.Equal(t, []float64{42.5}, got)
	}
}

func TestEWMAConstantSeries(t *testing.T) {
	series := []float64{7, 7, 7, 7, 7, 7}
	for _, alpha := range []float64{0.1, 0.5, 1} {
		got, err := EWMA(series, alpha)
		require.NoError(t, err)
		for i, v := range got {
			assert.InDelta(t, 7.0, v, 1e-12, "alpha %v index %d", alpha, i)
		}
	}
}

func TestEWMAAlphaOneIsIdentity(t *testing.T) {
	series := []float64{3, -1, 4, 1, -5}
	got, err := EWMA(series, 1)
	require.NoError(t, err)
	assert.Equal(t, series, got)
}

func TestEWMADiffersFromUnadjustedRecursion(t *testing.T) {
	series := []float64{0, 10}
	got, err := EWMA(series, 0.5)
	require.NoError(t, err)
	// weights 0.5 and 1 over {0, 10}
	assert.InDelta(t, 10.0/1.5, got[1], 1e-12)
	assert.NotEqual(t, 5.0, got[1])
}

func TestEWMARejectsBadAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, err := EWMA([]float64{1, 2}, alpha)
		assert.ErrorIs(t, err, ErrInvalidAlpha, "alpha %v", alpha)
	}
}

func TestEWMADefault(t *testing.T) {
	assert.Empty(t, EWMADefault(nil))

	series := []float64{1, 2, 3}
	want, err := EWMA(series, 0.5)
	require.NoError(t, err)
	assert.Equal(t, want, EWMADefault(series))
}

func TestInts(t *testing.T) {
	assert.Equal(t, []float64{1, -2, 3}, Ints([]int{1, -2, 3}))
}
