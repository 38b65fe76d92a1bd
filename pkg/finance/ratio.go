package finance

import (
	"encoding/json"
	"math"

	"github.com/iwvelando/finance-calculator/pkg/mathutil"
)

// Ratio is a percentage that may be degenerate. A degenerate Ratio keeps the
// raw non-finite Value so callers can tell +Inf from NaN, and sets Err to
// ErrDegenerate so the value is never mistaken for a normal number.
type Ratio struct {
	Value float64
	Err   error
}

func newRatio(value float64) Ratio {
	if !mathutil.IsFinite(value) {
		return Ratio{Value: value, Err: ErrDegenerate}
	}
	return Ratio{Value: value}
}

// Degenerate reports whether the ratio could not be computed.
func (r Ratio) Degenerate() bool {
	return r.Err != nil
}

// Float returns the value and whether it is usable for display.
func (r Ratio) Float() (float64, bool) {
	if r.Degenerate() {
		return 0, false
	}
	return r.Value, true
}

type ratioJSON struct {
	Value      *float64 `json:"value"`
	Degenerate bool     `json:"degenerate"`
	Kind       string   `json:"kind,omitempty"`
}

// MarshalJSON encodes degenerate values as null since JSON has no Inf or NaN.
func (r Ratio) MarshalJSON() ([]byte, error) {
	out := ratioJSON{Degenerate: r.Degenerate()}
	if v, ok := r.Float(); ok {
		out.Value = &v
	} else {
		switch {
		case math.IsInf(r.Value, 1):
			out.Kind = "+inf"
		case math.IsInf(r.Value, -1):
			out.Kind = "-inf"
		default:
			out.Kind = "nan"
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a Ratio encoded by MarshalJSON.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var in ratioJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Degenerate && in.Value != nil {
		*r = Ratio{Value: *in.Value}
		return nil
	}
	switch in.Kind {
	case "+inf":
		*r = Ratio{Value: math.Inf(1), Err: ErrDegenerate}
	case "-inf":
		*r = Ratio{Value: math.Inf(-1), Err: ErrDegenerate}
	default:
		*r = Ratio{Value: math.NaN(), Err: ErrDegenerate}
	}
	return nil
}

// GoalEstimate is the number of periods (years or months) needed to reach a
// goal. Reachable is false when the goal cannot be reached at the current rate.
type GoalEstimate struct {
	Periods   int  `json:"periods"`
	Reachable bool `json:"reachable"`
	// Approximate is set when the estimate extrapolates past the projected
	// horizon using the compound-interest inversion, which ignores further
	// contributions.
	Approximate bool `json:"approximate,omitempty"`
}

// Unreachable is the sentinel estimate for goals that cannot be reached.
var Unreachable = GoalEstimate{}
