// Package config defines conversion utilities for configuration objects.
package config

import (
	"fmt"

	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// AnnualRate resolves the selected rate preset, or the custom rate.
func (s Settings) AnnualRate() (float64, error) {
	return finance.ResolveRate(finance.RateSelector(s.SelectedRate), s.CustomRate)
}

// InvestmentScenario converts the stored parameters into projector input.
func (s Settings) InvestmentScenario() (finance.InvestmentScenario, error) {
	rate, err := s.AnnualRate()
	if err != nil {
		return finance.InvestmentScenario{}, err
	}

	return finance.InvestmentScenario{
		MonthlyContribution: s.MonthlyInvestment,
		Years:               s.Years,
		AnnualRate:          rate,
		LumpSums:            append([]finance.LumpSum(nil), s.LumpSums...),
		Goal:                s.TotalGoal,
	}, nil
}

// BudgetScenario converts the stored parameters into projector input. Amounts
// are converted with the shortest decimal representation of each float;
// NaN and infinite amounts have none and are rejected.
func (s Settings) BudgetScenario() (finance.BudgetScenario, error) {
	income, err := toDecimal("monthlyIncome", s.MonthlyIncome)
	if err != nil {
		return finance.BudgetScenario{}, err
	}
	goal, err := toDecimal("savingsGoal", s.SavingsGoal)
	if err != nil {
		return finance.BudgetScenario{}, err
	}

	expenses := make([]finance.Expense, 0, len(s.Expenses))
	for i, e := range s.Expenses {
		amount, err := toDecimal(fmt.Sprintf("expenses[%d].amount", i), e.Amount)
		if err != nil {
			return finance.BudgetScenario{}, err
		}
		expenses = append(expenses, finance.Expense{Category: e.Category, Amount: amount})
	}

	return finance.BudgetScenario{
		MonthlyIncome: income,
		Expenses:      expenses,
		SavingsGoal:   goal,
	}, nil
}

func toDecimal(field string, value float64) (decimal.Decimal, error) {
	if !mathutil.IsFinite(value) {
		return decimal.Decimal{}, &finance.ConfigurationError{
			Field:  field,
			Value:  value,
			Reason: "must be a finite amount",
		}
	}
	return decimal.NewFromFloat(value), nil
}
