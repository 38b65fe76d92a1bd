// Package constants provides shared constants for the finance-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// BudgetProjectionMonths is the length of the cumulative budget series
	BudgetProjectionMonths = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxGoalPercentage caps goal progress
	MaxGoalPercentage = 100.0
)

// Rate preset constants. Each preset is an annual rate expressed as a fraction.
const (
	RateLow  = 0.04
	RateReal = 0.0637
	RateSPY  = 0.1011
)

// Scenario defaults applied when a user has no stored settings.
const (
	DefaultMonthlyInvestment = 500.0
	DefaultYears             = 30
	DefaultSelectedRate      = "spy"
	DefaultCustomRate        = 0.05
	DefaultTotalGoal         = 2000000.0
	DefaultMonthlyIncome     = 5000.0
	DefaultSavingsGoal       = 1000.0

	// MaxSuggestedYears is the longest horizon offered by the editor; longer
	// horizons are accepted with a warning.
	MaxSuggestedYears = 50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default application configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides
	EnvPrefix = "FINCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// UserIDHeader carries the identity asserted by the upstream auth proxy.
	UserIDHeader = "X-User-ID"

	// UserEmailHeader carries the authenticated user's email, if known.
	UserEmailHeader = "X-User-Email"

	// UserNameHeader carries the authenticated user's display name, if known.
	UserNameHeader = "X-User-Name"
)

// Store constants
const (
	// StoreDriverSQLite persists settings to a SQLite document table
	StoreDriverSQLite = "sqlite"

	// StoreDriverMemory keeps settings in process memory
	StoreDriverMemory = "memory"

	// DefaultStorePath is the default SQLite database location
	DefaultStorePath = "data/fincalc.db"
)
