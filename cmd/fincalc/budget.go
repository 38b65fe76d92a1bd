package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/forecast"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/spf13/cobra"
)

type budgetFlags struct {
	income      float64
	expenses    []string
	savingsGoal float64
}

func newBudgetCmd(a *app) *cobra.Command {
	f := &budgetFlags{}

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Project monthly savings over the next twelve months",
		Example: "  fincalc budget --income 6000 --expense Housing=1800 --expense Food=650\n" +
			"  fincalc budget --settings settings.yaml -o csv",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.loadSettings()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &settings); err != nil {
				return err
			}
			a.warn(settings)

			result, err := forecast.ComputeBudget(a.logger, settings)
			if err != nil {
				return err
			}

			if a.conf.Output.Format == constants.OutputFormatCSV {
				output.CsvBudget(cmd.OutOrStdout(), result)
			} else {
				output.PrettyBudget(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&f.income, "income", constants.DefaultMonthlyIncome, "monthly income")
	flags.StringArrayVar(&f.expenses, "expense", nil, "monthly expense as CATEGORY=AMOUNT (repeatable, replaces the expense list)")
	flags.Float64Var(&f.savingsGoal, "savings-goal", constants.DefaultSavingsGoal, "savings target")
	return cmd
}

func (f *budgetFlags) apply(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("income") {
		s.MonthlyIncome = f.income
	}
	if flags.Changed("savings-goal") {
		s.SavingsGoal = f.savingsGoal
	}
	if flags.Changed("expense") {
		expenses := make([]config.ExpenseItem, 0, len(f.expenses))
		for _, raw := range f.expenses {
			e, err := parseExpense(raw)
			if err != nil {
				return err
			}
			expenses = append(expenses, e)
		}
		s.Expenses = expenses
	}
	return nil
}

// parseExpense parses CATEGORY=AMOUNT. The category may contain spaces.
func parseExpense(raw string) (config.ExpenseItem, error) {
	idx := strings.LastIndex(raw, "=")
	if idx < 0 {
		return config.ExpenseItem{}, fmt.Errorf("invalid expense %q: expected CATEGORY=AMOUNT", raw)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(raw[idx+1:]), 64)
	if err != nil {
		return config.ExpenseItem{}, fmt.Errorf("invalid expense amount in %q: %w", raw, err)
	}
	return config.ExpenseItem{Category: strings.TrimSpace(raw[:idx]), Amount: amount}, nil
}
