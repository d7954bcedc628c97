// Package stats provides the numeric routines used to summarise a submission's match history
package stats

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidAlpha is returned when a smoothing factor lies outside (0, 1]
var ErrInvalidAlpha = errors.New("smoothing factor must be in (0, 1]")

// Mean returns the arithmetic mean of values, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// CumulativeMean yields, for n = 1..len(values), the mean of values[:n]
func CumulativeMean(values []float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		var sum float64
		for i, v := range values {
			sum += v
			if !yield(sum / float64(i+1)) {
				return
			}
		}
	}
}

// DefaultAlpha returns the span-style smoothing factor 2/(n+1) for a series of length n
func DefaultAlpha(n int) float64 {
	return 2 / (float64(n) + 1)
}

// EWMA returns the adjusted exponentially weighted moving average of values.
//
// Each output is the weighted mean of the samples seen so far, the weight of
// sample j at position i being (1-alpha)^(i-j). The weights are renormalised
// at every position, so the first outputs are not biased towards zero.
func EWMA(values []float64, alpha float64) ([]float64, error) {
	if !(alpha > 0 && alpha <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}

	decay := 1 - alpha
	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out, nil
}

// EWMADefault smooths values with DefaultAlpha(len(values))
func EWMADefault(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	// DefaultAlpha is always in (0, 1] for n >= 1
	out, _ := EWMA(values, DefaultAlpha(len(values)))
	return out
}

// Ints converts an integer series to float64 for smoothing
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
