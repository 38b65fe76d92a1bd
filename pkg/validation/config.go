// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// ValidateLumpSumYear warns when a lump sum falls outside the horizon and
// will therefore be ignored.
func ValidateLumpSumYear(index int, amount float64, year, horizon int) string {
	if year < 1 || year > horizon {
		return fmt.Sprintf("Lump sum %d (%.2f in year %d) is outside the %d-year horizon and will be ignored",
			index+1, amount, year, horizon)
	}
	return ""
}

// ValidateCustomRate warns about custom rates outside the 0-100% range the
// editor offers.
func ValidateCustomRate(selected string, custom float64) string {
	if selected != "custom" {
		return ""
	}
	if custom < 0 || custom > 1 {
		return fmt.Sprintf("Custom rate %.2f%% is outside 0-100%%", custom*constants.PercentageMultiplier)
	}
	return ""
}

// SettingsValidator collects the fields of a settings record that are checked for warnings.
type SettingsValidator struct {
	Years        int
	SelectedRate string
	CustomRate   float64
	LumpSums     []LumpSumConfig
	Expenses     []ExpenseConfig
}

type LumpSumConfig struct {
	Amount float64
	Year   int
}

type ExpenseConfig struct {
	Category string
	Amount   float64
}

// ValidateAll validates the settings and returns warnings
func (sv *SettingsValidator) ValidateAll() []string {
	var warnings []string

	if sv.Years > constants.MaxSuggestedYears {
		warnings = append(warnings, fmt.Sprintf("Horizon of %d years exceeds the suggested maximum of %d",
			sv.Years, constants.MaxSuggestedYears))
	}

	if warning := ValidateCustomRate(sv.SelectedRate, sv.CustomRate); warning != "" {
		warnings = append(warnings, warning)
	}

	// Out-of-range lump sums are only meaningful against a valid horizon.
	if sv.Years > 0 {
		for i, ls := range sv.LumpSums {
			if warning := ValidateLumpSumYear(i, ls.Amount, ls.Year, sv.Years); warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	for i, e := range sv.Expenses {
		if strings.TrimSpace(e.Category) == "" {
			warnings = append(warnings, fmt.Sprintf("Expense %d has no category", i+1))
		}
	}

	return warnings
}
