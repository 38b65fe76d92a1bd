package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// TestSettingsExplicitZeros checks that zero values written in a settings
// file are kept rather than replaced by defaults.
func TestSettingsExplicitZeros(t *testing.T) {
	contents := `monthlyInvestment: 0
customRate: 0
monthlyIncome: 0
savingsGoal: 0
expenses: []
`
	s, err := LoadSettingsFromReader(strings.NewReader(contents), "yaml")
	if err != nil {
		t.Fatalf("LoadSettingsFromReader() error = %v", err)
	}

	if s.MonthlyInvestment != 0 || s.CustomRate != 0 || s.MonthlyIncome != 0 || s.SavingsGoal != 0 {
		t.Errorf("explicit zeros were replaced: %+v", s)
	}
	if len(s.Expenses) != 0 {
		t.Errorf("expected the explicit empty expense list, got %+v", s.Expenses)
	}
	if s.Years != constants.DefaultYears {
		t.Errorf("omitted years should default, got %d", s.Years)
	}
}

// TestSettingsShorterListReplacesDefaults guards against merging a short
// list from the file into the longer default list.
func TestSettingsShorterListReplacesDefaults(t *testing.T) {
	contents := `expenses:
  - category: Rent
    amount: 900
`
	s, err := LoadSettingsFromReader(strings.NewReader(contents), "yaml")
	if err != nil {
		t.Fatalf("LoadSettingsFromReader() error = %v", err)
	}
	if len(s.Expenses) != 1 || s.Expenses[0].Category != "Rent" {
		t.Errorf("expected only Rent, got %+v", s.Expenses)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		contents string
	}{
		{name: "malformed yaml", filename: "bad.yaml", contents: "years: [1, 2"},
		{name: "wrong type", filename: "type.yaml", contents: "years: thirty"},
		{name: "malformed json", filename: "bad.json", contents: `{"years": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			if err := os.WriteFile(path, []byte(tt.contents), 0600); err != nil {
				t.Fatalf("failed to write settings: %v", err)
			}
			if _, err := LoadSettings(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSettingsNegativeValuesReachProjector(t *testing.T) {
	s, err := LoadSettingsFromReader(strings.NewReader("monthlyIncome: -100\n"), "yaml")
	if err != nil {
		t.Fatalf("LoadSettingsFromReader() error = %v", err)
	}

	// Loading does not validate amounts; the projector rejects them.
	if s.MonthlyIncome != -100 {
		t.Fatalf("expected -100, got %.2f", s.MonthlyIncome)
	}
	if _, err := s.InvestmentScenario(); err != nil {
		t.Errorf("investment settings are unaffected, got %v", err)
	}
}
