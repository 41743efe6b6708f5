// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
)

// decimalPrecision rounds currency to cents.
const decimalPrecision = 100

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*decimalPrecision) / decimalPrecision
}

// RoundHalfUp rounds to the nearest integer with halves going toward positive
// infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func RoundHalfUp(val float64) float64 {
	return math.Floor(val + 0.5)
}

// RoundInt is RoundHalfUp converted to an int.
func RoundInt(val float64) int {
	return int(RoundHalfUp(val))
}

// ClampInt limits val to the closed range [lo, hi].
func ClampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Percentage calculates what percentage value is of total. A zero total yields
// zero rather than NaN or Inf.
func Percentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// WeightedSum returns Σ weights[i] × values[i] over the shorter of the two slices.
func WeightedSum(weights, values []float64) float64 {
	n := len(weights)
	if len(values) < n {
		n = len(values)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += weights[i] * values[i]
	}
	return sum
}

// Normalize scales weights so they sum to 1. A zero-sum input is returned as a
// copy unchanged.
func Normalize(weights []float64) []float64 {
	out := make([]float64, len(weights))
	copy(out, weights)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// Mean returns the arithmetic mean of values, or zero when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
