package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/forecast"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/spf13/cobra"
)

type investFlags struct {
	monthly    float64
	years      int
	rate       string
	customRate float64
	lumpSums   []string
	goal       float64
}

func newInvestCmd(a *app) *cobra.Command {
	f := &investFlags{}

	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Project investment growth year by year",
		Example: "  fincalc invest --monthly 750 --years 25 --rate real\n" +
			"  fincalc invest --rate custom --custom-rate 0.07 --lump-sum 10000@5",
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

			result, err := forecast.ComputeInvestment(a.logger, settings)
			if err != nil {
				return err
			}

			if a.conf.Output.Format == constants.OutputFormatCSV {
				output.CsvInvestment(cmd.OutOrStdout(), result)
			} else {
				output.PrettyInvestment(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&f.monthly, "monthly", constants.DefaultMonthlyInvestment, "monthly contribution")
	flags.IntVar(&f.years, "years", constants.DefaultYears, "investment horizon in years")
	flags.StringVar(&f.rate, "rate", constants.DefaultSelectedRate, "annual rate: low, real, spy or custom")
	flags.Float64Var(&f.customRate, "custom-rate", constants.DefaultCustomRate, "annual rate used with --rate custom, e.g. 0.05")
	flags.StringArrayVar(&f.lumpSums, "lump-sum", nil, "one-time amount added at the end of a year, as AMOUNT@YEAR (repeatable)")
	flags.Float64Var(&f.goal, "goal", constants.DefaultTotalGoal, "target portfolio value")
	return cmd
}

// apply overrides settings with the flags given on the command line.
func (f *investFlags) apply(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("monthly") {
		s.MonthlyInvestment = f.monthly
	}
	if flags.Changed("years") {
		s.Years = f.years
	}
	if flags.Changed("rate") {
		s.SelectedRate = f.rate
	}
	if flags.Changed("custom-rate") {
		s.CustomRate = f.customRate
	}
	if flags.Changed("goal") {
		s.TotalGoal = f.goal
	}
	if flags.Changed("lump-sum") {
		lumpSums := make([]finance.LumpSum, 0, len(f.lumpSums))
		for _, raw := range f.lumpSums {
			ls, err := parseLumpSum(raw)
			if err != nil {
				return err
			}
			lumpSums = append(lumpSums, ls)
		}
		s.LumpSums = lumpSums
	}
	return nil
}

// parseLumpSum parses AMOUNT@YEAR.
func parseLumpSum(raw string) (finance.LumpSum, error) {
	amountStr, yearStr, ok := strings.Cut(raw, "@")
	if !ok {
		return finance.LumpSum{}, fmt.Errorf("invalid lump sum %q: expected AMOUNT@YEAR", raw)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
	if err != nil {
		return finance.LumpSum{}, fmt.Errorf("invalid lump sum amount %q: %w", amountStr, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return finance.LumpSum{}, fmt.Errorf("invalid lump sum year %q: %w", yearStr, err)
	}
	return finance.LumpSum{Amount: amount, Year: year}, nil
}
