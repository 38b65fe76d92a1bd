package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/spf13/pflag"
)

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`logging:
  level: debug
  format: console
  outputFile: /tmp/fincalc.log
output:
  format: csv
store:
  driver: memory
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config: %+v", conf.Logging)
	}
	if conf.Logging.OutputFile != "/tmp/fincalc.log" {
		t.Errorf("expected outputFile /tmp/fincalc.log, got %q", conf.Logging.OutputFile)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected csv output, got %q", conf.Output.Format)
	}
	if conf.Store.Driver != constants.StoreDriverMemory {
		t.Errorf("expected memory store, got %q", conf.Store.Driver)
	}
	if conf.Store.Path != constants.DefaultStorePath {
		t.Errorf("expected default store path, got %q", conf.Store.Path)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error but got none")
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("FINCALC_LOGGING_LEVEL", "warn")

	conf, err := LoadConfigurationFromReader(strings.NewReader("logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Logging.Level != "warn" {
		t.Errorf("expected env override warn, got %q", conf.Logging.Level)
	}
}

func TestDefaultConfiguration(t *testing.T) {
	conf := DefaultConfiguration()
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected default pretty output, got %q", conf.Output.Format)
	}
	if conf.Store.Driver != constants.StoreDriverSQLite {
		t.Errorf("expected default sqlite store, got %q", conf.Store.Driver)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("output-format", "", "")
	flags.String("store-driver", "", "")
	return flags
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte("logging:\n  level: warn\noutput:\n  format: csv\n")
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	flags := newFlagSet()
	if err := flags.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	conf, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("expected flag to override level, got %q", conf.Logging.Level)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("unset flag should not override the file, got %q", conf.Output.Format)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	flags := newFlagSet()
	if err := flags.Parse([]string{"--store-driver", "memory"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	conf, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected default pretty output, got %q", conf.Output.Format)
	}
	if conf.Store.Driver != constants.StoreDriverMemory {
		t.Errorf("expected memory driver from flag, got %q", conf.Store.Driver)
	}
}
