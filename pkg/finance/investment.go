// Package finance holds the projection engine: pure functions that turn an
// investment or budget scenario into a projected series and summary metrics.
package finance

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
)

// LumpSum is a one-time amount invested at the end of the given year.
type LumpSum struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Year   int     `json:"year" yaml:"year"`
}

// InvestmentScenario holds the parameters of one investment projection.
type InvestmentScenario struct {
	MonthlyContribution float64   `json:"monthlyContribution"`
	Years               int       `json:"years"`
	AnnualRate          float64   `json:"annualRate"`
	LumpSums            []LumpSum `json:"lumpSums,omitempty"`
	Goal                float64   `json:"goal"`
}

// WithLumpSum returns a copy of the scenario with ls appended.
func (s InvestmentScenario) WithLumpSum(ls LumpSum) InvestmentScenario {
	lumpSums := make([]LumpSum, 0, len(s.LumpSums)+1)
	lumpSums = append(lumpSums, s.LumpSums...)
	s.LumpSums = append(lumpSums, ls)
	return s
}

// WithoutLumpSum returns a copy of the scenario with the lump sum at index
// removed. An out-of-range index returns an unchanged copy.
func (s InvestmentScenario) WithoutLumpSum(index int) InvestmentScenario {
	lumpSums := make([]LumpSum, 0, len(s.LumpSums))
	for i, ls := range s.LumpSums {
		if i != index {
			lumpSums = append(lumpSums, ls)
		}
	}
	s.LumpSums = lumpSums
	return s
}

// YearlyProjection is the rounded state of the portfolio at the end of a year.
type YearlyProjection struct {
	Year     int     `json:"year"`
	Value    float64 `json:"value"`
	Invested float64 `json:"invested"`
}

// GoalProgress summarizes how the projection compares to the goal.
type GoalProgress struct {
	Target         float64      `json:"target"`
	PercentOfGoal  Ratio        `json:"percentOfGoal"`
	Reached        bool         `json:"reached"`
	EstimatedYears GoalEstimate `json:"estimatedYears"`
}

// InvestmentResult is the output of ProjectInvestment.
type InvestmentResult struct {
	TotalInvested    float64            `json:"totalInvested"`
	FinalValue       float64            `json:"finalValue"`
	Growth           float64            `json:"growth"`
	Yearly           []YearlyProjection `json:"yearly"`
	Goal             GoalProgress       `json:"goal"`
	ReturnMultiplier Ratio              `json:"returnMultiplier"`
	InvestedShare    Ratio              `json:"investedShare"`
}

// Validate checks the scenario for values the projector cannot work with.
// Lump sums outside [1, Years] are not an error; they are ignored.
func (s InvestmentScenario) Validate() error {
	if s.Years <= 0 {
		return configErr("years", s.Years, "must be a positive number of years")
	}
	if !mathutil.IsFinite(s.MonthlyContribution) || s.MonthlyContribution < 0 {
		return configErr("monthlyContribution", s.MonthlyContribution, "must be a non-negative amount")
	}
	if !mathutil.IsFinite(s.AnnualRate) || s.AnnualRate <= -1 {
		return configErr("annualRate", s.AnnualRate, "must be a finite rate greater than -100%")
	}
	if !mathutil.IsFinite(s.Goal) || s.Goal < 0 {
		return configErr("goal", s.Goal, "must be a non-negative amount")
	}
	for _, ls := range s.LumpSums {
		if !mathutil.IsFinite(ls.Amount) || ls.Amount < 0 {
			return configErr("lumpSums.amount", ls.Amount, "must be a non-negative amount")
		}
	}
	return nil
}

// InRange reports whether the lump sum falls inside a horizon of years.
func (ls LumpSum) InRange(years int) bool {
	return ls.Year >= 1 && ls.Year <= years
}

// ProjectInvestment compounds the monthly contribution at AnnualRate/12 for
// every month of the horizon. Lump sums are added at the end of their year,
// after that year's twelve compounding steps. The yearly series is rounded to
// whole currency units; the totals are not. A rate that grows the value past
// the float64 range is a configuration error.
func ProjectInvestment(s InvestmentScenario) (InvestmentResult, error) {
	if err := s.Validate(); err != nil {
		return InvestmentResult{}, err
	}

	byYear := make(map[int][]float64)
	for _, ls := range s.LumpSums {
		if ls.InRange(s.Years) {
			byYear[ls.Year] = append(byYear[ls.Year], ls.Amount)
		}
	}

	monthlyRate := mathutil.MonthlyRate(s.AnnualRate)
	value, invested := 0.0, 0.0
	yearly := make([]YearlyProjection, 0, s.Years)

	for year := 1; year <= s.Years; year++ {
		for month := 0; month < constants.MonthsPerYear; month++ {
			value = value*(1+monthlyRate) + s.MonthlyContribution
			invested += s.MonthlyContribution
		}
		for _, amount := range byYear[year] {
			value += amount
			invested += amount
		}
		if !mathutil.IsFinite(value) || !mathutil.IsFinite(invested) {
			return InvestmentResult{}, configErr("annualRate", s.AnnualRate,
				fmt.Sprintf("projection exceeds the representable range in year %d", year))
		}
		yearly = append(yearly, YearlyProjection{
			Year:     year,
			Value:    mathutil.RoundWhole(value),
			Invested: mathutil.RoundWhole(invested),
		})
	}

	return InvestmentResult{
		TotalInvested:    invested,
		FinalValue:       value,
		Growth:           value - invested,
		Yearly:           yearly,
		Goal:             EvaluateGoal(value, s.Goal, s.Years, s.AnnualRate),
		ReturnMultiplier: newRatio(value / invested),
		InvestedShare:    newRatio(mathutil.Percentage(invested, value)),
	}, nil
}

// EvaluateGoal derives goal metrics from a final value reached after years.
//
// When the goal was not reached the years estimate extrapolates with
// years + ln(goal/final) / ln(1+annualRate), rounded up. That inversion only
// grows the final value and ignores contributions made after the horizon, so
// it overstates the time needed; it is flagged Approximate.
func EvaluateGoal(finalValue, goal float64, years int, annualRate float64) GoalProgress {
	percent := newRatio(mathutil.Percentage(finalValue, goal))
	if !percent.Degenerate() {
		percent.Value = math.Min(constants.MaxGoalPercentage, percent.Value)
	}
	progress := GoalProgress{Target: goal, PercentOfGoal: percent}

	if finalValue >= goal {
		progress.Reached = true
		progress.EstimatedYears = GoalEstimate{Periods: years, Reachable: true}
		return progress
	}

	estimate := float64(years) + math.Log(goal/finalValue)/math.Log(1+annualRate)
	if !mathutil.IsFinite(estimate) || estimate < float64(years) {
		progress.EstimatedYears = Unreachable
		return progress
	}
	progress.EstimatedYears = GoalEstimate{
		Periods:     int(math.Ceil(estimate)),
		Reachable:   true,
		Approximate: true,
	}
	return progress
}
