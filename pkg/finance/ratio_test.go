package finance

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestRatioJSON(t *testing.T) {
	tests := []struct {
		name    string
		ratio   Ratio
		encoded string
	}{
		{name: "finite", ratio: newRatio(42.5), encoded: `{"value":42.5,"degenerate":false}`},
		{name: "positive infinity", ratio: newRatio(math.Inf(1)), encoded: `{"value":null,"degenerate":true,"kind":"+inf"}`},
		{name: "negative infinity", ratio: newRatio(math.Inf(-1)), encoded: `{"value":null,"degenerate":true,"kind":"-inf"}`},
		{name: "not a number", ratio: newRatio(math.NaN()), encoded: `{"value":null,"degenerate":true,"kind":"nan"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ratio)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.encoded {
				t.Fatalf("expected %s, got %s", tt.encoded, data)
			}

			var decoded Ratio
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if decoded.Degenerate() != tt.ratio.Degenerate() {
				t.Fatalf("degenerate flag lost: %+v", decoded)
			}
			if !tt.ratio.Degenerate() && decoded.Value != tt.ratio.Value {
				t.Errorf("expected %v, got %v", tt.ratio.Value, decoded.Value)
			}
			if math.IsInf(tt.ratio.Value, 1) && !math.IsInf(decoded.Value, 1) {
				t.Errorf("expected +Inf, got %v", decoded.Value)
			}
		})
	}
}

func TestRatioFloat(t *testing.T) {
	if v, ok := newRatio(12).Float(); !ok || v != 12 {
		t.Errorf("expected (12, true), got (%v, %v)", v, ok)
	}

	degenerate := newRatio(math.Inf(1))
	if v, ok := degenerate.Float(); ok || v != 0 {
		t.Errorf("expected (0, false), got (%v, %v)", v, ok)
	}
	if !errors.Is(degenerate.Err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", degenerate.Err)
	}
	if !math.IsInf(degenerate.Value, 1) {
		t.Error("degenerate ratio should keep its raw value")
	}
}

func TestConfigurationErrorUnwraps(t *testing.T) {
	err := configErr("years", 0, "must be positive")

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "years" {
		t.Fatalf("expected ConfigurationError for years, got %v", err)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected errors.Is(err, ErrConfiguration)")
	}
	if err.Error() != "invalid years (0): must be positive" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
