// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/arr-planner/pkg/constants"
)

// IsFinite reports whether val is neither infinite nor NaN.
func IsFinite(val float64) bool {
	return !math.IsInf(val, 0) && !math.IsNaN(val)
}

// SafePositive returns val when it is finite and strictly positive, otherwise
// fallback.
func SafePositive(val, fallback float64) float64 {
	if !IsFinite(val) || val <= 0 {
		return fallback
	}
	return val
}

// Clamp01 bounds a probability to [0,1]. NaN becomes 0.
func Clamp01(val float64) float64 {
	if math.IsNaN(val) {
		return 0
	}
	return math.Max(0, math.Min(1, val))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	if math.IsInf(val1, 0) || math.IsInf(val2, 0) {
		return val1 == val2
	}
	return math.Abs(val1-val2) <= tolerance
}

// FromPercent converts a percentage to a 0-1 rate.
func FromPercent(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
