package finance

import (
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
)

// RateSelector names one of the annual-rate presets.
type RateSelector string

// Supported rate selectors.
const (
	RateLow    RateSelector = "low"
	RateReal   RateSelector = "real"
	RateSPY    RateSelector = "spy"
	RateCustom RateSelector = "custom"
)

// RatePreset describes a selectable annual rate.
type RatePreset struct {
	Selector   RateSelector `json:"selector"`
	Label      string       `json:"label"`
	AnnualRate *float64     `json:"annualRate,omitempty"`
}

var presetRates = map[RateSelector]float64{
	RateLow:  constants.RateLow,
	RateReal: constants.RateReal,
	RateSPY:  constants.RateSPY,
}

// Rates lists the presets in display order. The custom entry carries no rate.
func Rates() []RatePreset {
	low, realReturn, spy := constants.RateLow, constants.RateReal, constants.RateSPY
	return []RatePreset{
		{Selector: RateLow, Label: "4% APR (Conservative)", AnnualRate: &low},
		{Selector: RateReal, Label: "Avg Inflation Adjusted Real Return (6.37%)", AnnualRate: &realReturn},
		{Selector: RateSPY, Label: "SPY Average (10.11%)", AnnualRate: &spy},
		{Selector: RateCustom, Label: "Custom Rate"},
	}
}

// Valid reports whether s is a known selector.
func (s RateSelector) Valid() bool {
	if s == RateCustom {
		return true
	}
	_, ok := presetRates[s]
	return ok
}

// ResolveRate maps a selector to its annual rate fraction. The custom value is
// only consulted for RateCustom.
func ResolveRate(selector RateSelector, custom float64) (float64, error) {
	if selector == RateCustom {
		if !mathutil.IsFinite(custom) {
			return 0, configErr("customRate", custom, "must be a finite number")
		}
		if custom <= -1 {
			return 0, configErr("customRate", custom, "must be greater than -100%")
		}
		return custom, nil
	}
	rate, ok := presetRates[selector]
	if !ok {
		return 0, configErr("selectedRate", selector, "unknown rate selector")
	}
	return rate, nil
}
