package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Settings is the per-user scenario record. It holds only the raw parameters
// of both calculators; derived values are never stored.
type Settings struct {
	// Investment settings
	MonthlyInvestment float64           `json:"monthlyInvestment" yaml:"monthlyInvestment"`
	Years             int               `json:"years" yaml:"years"`
	SelectedRate      string            `json:"selectedRate" yaml:"selectedRate"`
	CustomRate        float64           `json:"customRate" yaml:"customRate"`
	LumpSums          []finance.LumpSum `json:"lumpSums" yaml:"lumpSums"`
	TotalGoal         float64           `json:"totalGoal" yaml:"totalGoal"`

	// Budget settings
	MonthlyIncome float64       `json:"monthlyIncome" yaml:"monthlyIncome"`
	Expenses      []ExpenseItem `json:"expenses" yaml:"expenses"`
	SavingsGoal   float64       `json:"savingsGoal" yaml:"savingsGoal"`
}

// ExpenseItem is a budget line item as stored.
type ExpenseItem struct {
	Category string  `json:"category" yaml:"category"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// DefaultExpenses returns the starter budget offered to new users.
func DefaultExpenses() []ExpenseItem {
	return []ExpenseItem{
		{Category: "Housing", Amount: 1500},
		{Category: "Food", Amount: 600},
		{Category: "Transportation", Amount: 400},
		{Category: "Utilities", Amount: 300},
		{Category: "Entertainment", Amount: 200},
	}
}

// DefaultSettings returns the settings a session starts with.
func DefaultSettings() Settings {
	return Settings{
		MonthlyInvestment: constants.DefaultMonthlyInvestment,
		Years:             constants.DefaultYears,
		SelectedRate:      constants.DefaultSelectedRate,
		CustomRate:        constants.DefaultCustomRate,
		LumpSums:          []finance.LumpSum{},
		TotalGoal:         constants.DefaultTotalGoal,
		MonthlyIncome:     constants.DefaultMonthlyIncome,
		Expenses:          DefaultExpenses(),
		SavingsGoal:       constants.DefaultSavingsGoal,
	}
}

// Clone returns a deep copy so edits never alias a stored record.
func (s Settings) Clone() Settings {
	if s.LumpSums != nil {
		s.LumpSums = append([]finance.LumpSum{}, s.LumpSums...)
	}
	if s.Expenses != nil {
		s.Expenses = append([]ExpenseItem{}, s.Expenses...)
	}
	return s
}

// LoadSettings reads a YAML or JSON settings file. Missing fields are filled
// from DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading settings file, %s", err)
	}
	return decodeSettings(v)
}

// LoadSettingsFromReader reads settings of the given type ("yaml" or "json").
func LoadSettingsFromReader(r io.Reader, configType string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading settings data, %s", err)
	}
	return decodeSettings(v)
}

// decodeSettings decodes over the defaults, so only keys present in the file
// replace them. Lists in the file replace the default lists outright.
func decodeSettings(v *viper.Viper) (*Settings, error) {
	settings := DefaultSettings()
	zeroFields := func(c *mapstructure.DecoderConfig) { c.ZeroFields = true }
	if err := v.Unmarshal(&settings, zeroFields); err != nil {
		return nil, fmt.Errorf("unable to decode settings, %s", err)
	}
	return &settings, nil
}

// MarshalDocument encodes settings as the stored JSON document.
func (s Settings) MarshalDocument() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalJSON decodes over DefaultSettings, matching how settings files
// load: absent keys keep their default, present keys replace it even when
// zero, and lists replace the default lists outright.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	decoded := plain(DefaultSettings())
	// Default lists are restored afterwards so that json does not decode
	// elements into the default entries in place.
	decoded.LumpSums, decoded.Expenses = nil, nil
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.LumpSums == nil {
		decoded.LumpSums = []finance.LumpSum{}
	}
	if decoded.Expenses == nil {
		decoded.Expenses = DefaultExpenses()
	}
	*s = Settings(decoded)
	return nil
}

// UnmarshalDocument decodes a stored JSON document. Missing fields take their
// defaults.
func UnmarshalDocument(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings document: %w", err)
	}
	return s, nil
}
