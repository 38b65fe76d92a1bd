package finance

import (
	"math"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	monthsPerYear   = decimal.NewFromInt(constants.MonthsPerYear)
	maxGoalProgress = decimal.NewFromFloat(constants.MaxGoalPercentage)
)

// Expense is one budget line item. Categories are display keys and may repeat.
type Expense struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// BudgetScenario holds the parameters of one budget projection.
type BudgetScenario struct {
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Expenses      []Expense       `json:"expenses,omitempty"`
	SavingsGoal   decimal.Decimal `json:"savingsGoal"`
}

// WithExpense returns a copy of the scenario with e appended.
func (s BudgetScenario) WithExpense(e Expense) BudgetScenario {
	expenses := make([]Expense, 0, len(s.Expenses)+1)
	expenses = append(expenses, s.Expenses...)
	s.Expenses = append(expenses, e)
	return s
}

// ReplaceExpense returns a copy of the scenario with the expense at index
// replaced by e. An out-of-range index returns an unchanged copy.
func (s BudgetScenario) ReplaceExpense(index int, e Expense) BudgetScenario {
	expenses := append([]Expense(nil), s.Expenses...)
	if index >= 0 && index < len(expenses) {
		expenses[index] = e
	}
	s.Expenses = expenses
	return s
}

// WithoutExpense returns a copy of the scenario with the expense at index removed.
func (s BudgetScenario) WithoutExpense(index int) BudgetScenario {
	expenses := make([]Expense, 0, len(s.Expenses))
	for i, e := range s.Expenses {
		if i != index {
			expenses = append(expenses, e)
		}
	}
	s.Expenses = expenses
	return s
}

// MonthlyProjection holds cumulative totals after Month months.
type MonthlyProjection struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// CategoryTotal aggregates expenses sharing a category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    Ratio           `json:"share"`
}

// BudgetResult is the output of ProjectBudget.
type BudgetResult struct {
	MonthlyIncome  decimal.Decimal     `json:"monthlyIncome"`
	TotalExpenses  decimal.Decimal     `json:"totalExpenses"`
	MonthlySavings decimal.Decimal     `json:"monthlySavings"`
	AnnualSavings  decimal.Decimal     `json:"annualSavings"`
	SavingsRate    Ratio               `json:"savingsRate"`
	ExpenseShare   Ratio               `json:"expenseShare"`
	SavingsGoal    decimal.Decimal     `json:"savingsGoal"`
	MonthsToGoal   GoalEstimate        `json:"monthsToGoal"`
	GoalProgress   Ratio               `json:"goalProgress"`
	Monthly        []MonthlyProjection `json:"monthly"`
	Breakdown      []CategoryTotal     `json:"breakdown"`
}

// Validate rejects negative income, expenses or goal.
func (s BudgetScenario) Validate() error {
	if s.MonthlyIncome.IsNegative() {
		return configErr("monthlyIncome", s.MonthlyIncome, "must be a non-negative amount")
	}
	if s.SavingsGoal.IsNegative() {
		return configErr("savingsGoal", s.SavingsGoal, "must be a non-negative amount")
	}
	for _, e := range s.Expenses {
		if e.Amount.IsNegative() {
			return configErr("expenses.amount", e.Amount, "expense "+e.Category+" must be a non-negative amount")
		}
	}
	return nil
}

// ProjectBudget computes monthly savings from income and expenses and
// extrapolates them linearly over the next twelve months.
func ProjectBudget(s BudgetScenario) (BudgetResult, error) {
	if err := s.Validate(); err != nil {
		return BudgetResult{}, err
	}

	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	savings := s.MonthlyIncome.Sub(total)

	monthly := make([]MonthlyProjection, 0, constants.BudgetProjectionMonths)
	for month := 1; month <= constants.BudgetProjectionMonths; month++ {
		m := decimal.NewFromInt(int64(month))
		monthly = append(monthly, MonthlyProjection{
			Month:    month,
			Income:   s.MonthlyIncome.Mul(m),
			Expenses: total.Mul(m),
			Savings:  savings.Mul(m),
		})
	}

	return BudgetResult{
		MonthlyIncome:  s.MonthlyIncome,
		TotalExpenses:  total,
		MonthlySavings: savings,
		AnnualSavings:  savings.Mul(monthsPerYear),
		SavingsRate:    percentOf(savings, s.MonthlyIncome),
		ExpenseShare:   percentOf(total, s.MonthlyIncome),
		SavingsGoal:    s.SavingsGoal,
		MonthsToGoal:   MonthsToGoal(s.SavingsGoal, savings),
		GoalProgress:   goalProgress(s.SavingsGoal, savings),
		Monthly:        monthly,
		Breakdown:      breakdown(s.Expenses, total),
	}, nil
}

// MonthsToGoal returns ceil(goal / monthlySavings). A goal of zero is already
// reached; zero or negative savings never reach a positive goal.
func MonthsToGoal(goal, monthlySavings decimal.Decimal) GoalEstimate {
	if !goal.IsPositive() {
		return GoalEstimate{Periods: 0, Reachable: true}
	}
	if !monthlySavings.IsPositive() {
		return Unreachable
	}
	q, r := goal.QuoRem(monthlySavings, 0)
	months := q.IntPart()
	if !r.IsZero() {
		months++
	}
	return GoalEstimate{Periods: int(months), Reachable: true}
}

// percentOf returns part/whole*100. A zero whole yields a degenerate Ratio
// holding ±Inf, or NaN when part is also zero.
func percentOf(part, whole decimal.Decimal) Ratio {
	if whole.IsZero() {
		switch part.Sign() {
		case 1:
			return Ratio{Value: math.Inf(1), Err: ErrDegenerate}
		case -1:
			return Ratio{Value: math.Inf(-1), Err: ErrDegenerate}
		default:
			return Ratio{Value: math.NaN(), Err: ErrDegenerate}
		}
	}
	return newRatio(part.Div(whole).Mul(hundred).InexactFloat64())
}

func goalProgress(goal, monthlySavings decimal.Decimal) Ratio {
	if !monthlySavings.IsPositive() {
		return Ratio{}
	}
	if !goal.IsPositive() {
		return Ratio{Value: constants.MaxGoalPercentage}
	}
	pct := monthlySavings.Div(goal).Mul(hundred)
	return Ratio{Value: decimal.Min(pct, maxGoalProgress).InexactFloat64()}
}

func breakdown(expenses []Expense, total decimal.Decimal) []CategoryTotal {
	index := make(map[string]int)
	totals := make([]CategoryTotal, 0, len(expenses))
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(e.Amount)
	}
	for i := range totals {
		totals[i].Share = percentOf(totals[i].Amount, total)
	}
	return totals
}
