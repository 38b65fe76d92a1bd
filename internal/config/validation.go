package config

import (
	"github.com/iwvelando/finance-calculator/pkg/validation"
)

// ValidateSettings performs general validation of the settings and returns
// warnings. Hard errors are left to the projectors.
func (s Settings) ValidateSettings() []string {
	validator := validation.SettingsValidator{
		Years:        s.Years,
		SelectedRate: s.SelectedRate,
		CustomRate:   s.CustomRate,
	}
	for _, ls := range s.LumpSums {
		validator.LumpSums = append(validator.LumpSums, validation.LumpSumConfig{Amount: ls.Amount, Year: ls.Year})
	}
	for _, e := range s.Expenses {
		validator.Expenses = append(validator.Expenses, validation.ExpenseConfig{Category: e.Category, Amount: e.Amount})
	}
	return validator.ValidateAll()
}
