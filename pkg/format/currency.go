// Package format renders currency and percentages for display.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Unavailable is shown in place of a degenerate or unreachable value.
const Unavailable = "n/a"

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount), 2)
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency is Currency rounded to whole units (e.g., "$1,235").
func WholeCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(math.Round(amount)), 0)
	if math.Round(amount) < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent formats a percentage with one decimal, or Unavailable when ok is false.
func Percent(value float64, ok bool) string {
	if !ok {
		return Unavailable
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Multiplier formats a ratio such as a total return (e.g., "3.25x").
func Multiplier(value float64, ok bool) string {
	if !ok {
		return Unavailable
	}
	return fmt.Sprintf("%.2fx", value)
}

func formatPositiveCurrency(value float64, decimals int) string {
	formatted := fmt.Sprintf("%.*f", decimals, value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if decimals == 0 {
		return intPart
	}
	decPart := strings.Repeat("0", decimals)
	if len(parts) == 2 {
		decPart = parts[1]
	}
	return intPart + "." + decPart
}
