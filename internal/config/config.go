// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config and scenario settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration holds the application configuration for finance-calculator.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// StoreConfig selects where per-user settings are persisted.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // sqlite, memory
	Path   string `yaml:"path,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("store.driver", constants.StoreDriverSQLite)
	v.SetDefault("store.path", constants.DefaultStorePath)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden with FINCALC_* environment
// variables, e.g. FINCALC_LOGGING_LEVEL.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decodeConfiguration(v)
}

// LoadConfigurationFromReader loads YAML configuration from an arbitrary reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decodeConfiguration(v)
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"output-format": "output.format",
	"store-driver":  "store.driver",
	"store-path":    "store.path",
}

// Load reads the configuration at configPath if the file exists and layers
// environment variables and any flags named in flagKeys on top. A missing
// file is not an error; an unreadable one is.
func Load(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			v.SetConfigFile(configPath)
			v.SetConfigType("yml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("unable to bind flag %s: %w", name, err)
				}
			}
		}
	}

	return decodeConfiguration(v)
}

// DefaultConfiguration returns the configuration used when no file is present.
func DefaultConfiguration() *Configuration {
	conf, _ := decodeConfiguration(newViper())
	return conf
}

func decodeConfiguration(v *viper.Viper) (*Configuration, error) {
	// Unmarshal only sees env overrides for keys viper already knows about.
	for _, key := range []string{"logging.level", "logging.format", "logging.outputfile"} {
		_ = v.BindEnv(key)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
