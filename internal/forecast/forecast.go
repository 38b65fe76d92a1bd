// Package forecast runs both projectors over a settings record and collects
// the results alongside any validation warnings.
package forecast

import (
	"fmt"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"go.uber.org/zap"
)

// Forecast holds the projections for one settings record. A nil projection
// means that mode was not requested.
type Forecast struct {
	Investment *finance.InvestmentResult `json:"investment,omitempty"`
	Budget     *finance.BudgetResult     `json:"budget,omitempty"`
	Warnings   []string                  `json:"warnings,omitempty"`
}

// Compute projects both the investment and the budget described by settings.
func Compute(logger *zap.Logger, settings config.Settings) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Forecast{Warnings: settings.ValidateSettings()}
	for _, warning := range result.Warnings {
		logger.Warn(warning, zap.String("op", "forecast.Compute"))
	}

	investment, err := ComputeInvestment(logger, settings)
	if err != nil {
		return Forecast{}, err
	}
	result.Investment = &investment

	budget, err := ComputeBudget(logger, settings)
	if err != nil {
		return Forecast{}, err
	}
	result.Budget = &budget

	return result, nil
}

// ComputeInvestment resolves the selected rate and projects the investment.
func ComputeInvestment(logger *zap.Logger, settings config.Settings) (finance.InvestmentResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenario, err := settings.InvestmentScenario()
	if err != nil {
		return finance.InvestmentResult{}, fmt.Errorf("investment scenario: %w", err)
	}

	result, err := finance.ProjectInvestment(scenario)
	if err != nil {
		return finance.InvestmentResult{}, fmt.Errorf("investment projection: %w", err)
	}

	logger.Debug("projected investment",
		zap.String("op", "forecast.ComputeInvestment"),
		zap.String("rate", settings.SelectedRate),
		zap.Float64("annualRate", scenario.AnnualRate),
		zap.Int("years", scenario.Years),
		zap.Float64("finalValue", result.FinalValue),
	)
	return result, nil
}

// ComputeBudget projects the monthly budget.
func ComputeBudget(logger *zap.Logger, settings config.Settings) (finance.BudgetResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenario, err := settings.BudgetScenario()
	if err != nil {
		return finance.BudgetResult{}, fmt.Errorf("budget scenario: %w", err)
	}

	result, err := finance.ProjectBudget(scenario)
	if err != nil {
		return finance.BudgetResult{}, fmt.Errorf("budget projection: %w", err)
	}

	logger.Debug("projected budget",
		zap.String("op", "forecast.ComputeBudget"),
		zap.String("monthlySavings", result.MonthlySavings.StringFixed(2)),
		zap.Bool("goalReachable", result.MonthsToGoal.Reachable),
	)
	return result, nil
}
