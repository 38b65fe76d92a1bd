// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// RoundWhole rounds a value to the nearest whole currency unit, half away
// from zero.
func RoundWhole(val float64) float64 {
	return math.Round(val)
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Percentage returns value as a percentage of total. Unlike a guarded
// division it does not hide a zero total: the result is ±Inf or NaN.
func Percentage(value, total float64) float64 {
	return value / total * constants.PercentageMultiplier
}

// MonthlyRate converts an annual rate fraction into the simple monthly
// equivalent used for compounding.
func MonthlyRate(annual float64) float64 {
	return annual / constants.MonthsPerYear
}
