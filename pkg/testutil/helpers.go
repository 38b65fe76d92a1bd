// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-calculator/pkg/finance"
)

// FindYear finds the entry for year in a yearly series.
// Returns a pointer to the entry if found, nil otherwise.
func FindYear(yearly []finance.YearlyProjection, year int) *finance.YearlyProjection {
	for i := range yearly {
		if yearly[i].Year == year {
			return &yearly[i]
		}
	}
	return nil
}

// FindCategory finds a category in a budget breakdown.
// Returns a pointer to the total if found, nil otherwise.
func FindCategory(breakdown []finance.CategoryTotal, category string) *finance.CategoryTotal {
	for i := range breakdown {
		if breakdown[i].Category == category {
			return &breakdown[i]
		}
	}
	return nil
}
