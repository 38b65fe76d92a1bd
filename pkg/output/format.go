// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/iwvelando/finance-calculator/internal/forecast"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/iwvelando/finance-calculator/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pretty writes a human-readable rather than machine-readable report.
func Pretty(w io.Writer, result forecast.Forecast) {
	if result.Investment != nil {
		PrettyInvestment(w, *result.Investment)
	}
	if result.Investment != nil && result.Budget != nil {
		fmt.Fprintln(w)
	}
	if result.Budget != nil {
		PrettyBudget(w, *result.Budget)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

// PrettyInvestment writes the yearly series followed by the summary metrics.
func PrettyInvestment(w io.Writer, result finance.InvestmentResult) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Investment projection ---\n")
	fmt.Fprintf(w, "Year | Value          | Invested\n")
	fmt.Fprintf(w, "____ | ______________ | ______________\n")
	for _, year := range result.Yearly {
		_, _ = p.Fprintf(w, "%4d | $%-13.0f | $%.0f\n", year.Year, year.Value, year.Invested)
	}

	multiplier, multiplierOK := result.ReturnMultiplier.Float()
	share, shareOK := result.InvestedShare.Float()
	percent, percentOK := result.Goal.PercentOfGoal.Float()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total invested:    %s (%s of final value)\n", format.WholeCurrency(result.TotalInvested), format.Percent(share, shareOK))
	fmt.Fprintf(w, "Final value:       %s\n", format.WholeCurrency(result.FinalValue))
	fmt.Fprintf(w, "Growth:            %s\n", format.WholeCurrency(result.Growth))
	fmt.Fprintf(w, "Return multiplier: %s\n", format.Multiplier(multiplier, multiplierOK))
	fmt.Fprintf(w, "Goal:              %s (%s achieved)\n", format.WholeCurrency(result.Goal.Target), format.Percent(percent, percentOK))
	fmt.Fprintf(w, "Estimated time:    %s\n", describeYears(result.Goal))
}

// PrettyBudget writes the budget summary followed by the twelve-month series.
func PrettyBudget(w io.Writer, result finance.BudgetResult) {
	p := message.NewPrinter(language.English)
	rate, rateOK := result.SavingsRate.Float()

	fmt.Fprintf(w, "--- Budget projection ---\n")
	fmt.Fprintf(w, "Monthly income:   %s\n", format.Currency(result.MonthlyIncome.InexactFloat64()))
	fmt.Fprintf(w, "Monthly expenses: %s\n", format.Currency(result.TotalExpenses.InexactFloat64()))
	for _, category := range result.Breakdown {
		share, ok := category.Share.Float()
		fmt.Fprintf(w, "  %-16s %s (%s)\n", category.Category, format.Currency(category.Amount.InexactFloat64()), format.Percent(share, ok))
	}
	fmt.Fprintf(w, "Monthly savings:  %s\n", format.Currency(result.MonthlySavings.InexactFloat64()))
	fmt.Fprintf(w, "Annual savings:   %s\n", format.Currency(result.AnnualSavings.InexactFloat64()))
	fmt.Fprintf(w, "Savings rate:     %s\n", format.Percent(rate, rateOK))
	fmt.Fprintf(w, "Savings goal:     %s (%s)\n", format.Currency(result.SavingsGoal.InexactFloat64()), describeMonths(result.MonthsToGoal))

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Month | Income       | Expenses     | Savings\n")
	fmt.Fprintf(w, "_____ | ____________ | ____________ | ____________\n")
	for _, month := range result.Monthly {
		_, _ = p.Fprintf(w, "%5d | $%-11.2f | $%-11.2f | $%.2f\n", month.Month,
			month.Income.InexactFloat64(), month.Expenses.InexactFloat64(), month.Savings.InexactFloat64())
	}
}

// CsvInvestment writes the yearly series in comma-separated value format.
func CsvInvestment(w io.Writer, result finance.InvestmentResult) {
	fmt.Fprintf(w, `"year","value","invested"`+"\n")
	for _, year := range result.Yearly {
		fmt.Fprintf(w, `"%d","%.0f","%.0f"`+"\n", year.Year, year.Value, year.Invested)
	}
}

// CsvBudget writes the monthly series in comma-separated value format.
func CsvBudget(w io.Writer, result finance.BudgetResult) {
	fmt.Fprintf(w, `"month","income","expenses","savings"`+"\n")
	for _, month := range result.Monthly {
		fmt.Fprintf(w, `"%d","%s","%s","%s"`+"\n", month.Month,
			month.Income.StringFixed(2), month.Expenses.StringFixed(2), month.Savings.StringFixed(2))
	}
}

// CsvString renders whichever series are present as CSV text.
func CsvString(result forecast.Forecast) string {
	var buf bytes.Buffer
	if result.Investment != nil {
		CsvInvestment(&buf, *result.Investment)
	}
	if result.Budget != nil {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		CsvBudget(&buf, *result.Budget)
	}
	return buf.String()
}

func describeYears(goal finance.GoalProgress) string {
	estimate := goal.EstimatedYears
	switch {
	case !estimate.Reachable:
		return "unreachable at the current rate"
	case goal.Reached:
		return fmt.Sprintf("%d years (goal achieved within investment period)", estimate.Periods)
	default:
		return fmt.Sprintf("~%d years (approximate, ignores contributions past the horizon)", estimate.Periods)
	}
}

func describeMonths(estimate finance.GoalEstimate) string {
	if !estimate.Reachable {
		return "not saving enough to reach goal"
	}
	return fmt.Sprintf("%d months to reach goal", estimate.Periods)
}
