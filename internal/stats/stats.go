// Package stats provides the statistical helpers used by the anomaly
// evaluator. All functions are pure and deterministic.
package stats

import (
	"math"
	"sort"

	apperrors "backupwatch/internal/errors"
)

// Median returns the median of values. For an even-length input it is the
// arithmetic mean of the two central sorted values. The input slice is not
// modified. Returns ErrEmptyInput for an empty sequence.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, apperrors.ErrEmptyInput
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, nil
	}
	return sorted[mid], nil
}

// Mean returns the arithmetic mean of values, 0 for an empty sequence.
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

// StdDev returns the sample standard deviation of values, 0 when fewer
// than two values are given.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}
