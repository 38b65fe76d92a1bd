package main

import (
	"fmt"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/forecast"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/iwvelando/finance-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by every subcommand once the root has parsed its
// persistent flags.
type app struct {
	configPath   string
	settingsPath string

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fincalc",
		Short: "Personal finance calculator",
		Long: "Project investment growth with monthly compounding and lump sums, " +
			"and project a monthly budget over the next year.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runForecast,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVarP(&a.settingsPath, "settings", "s", "", "scenario settings file (YAML or JSON)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("log-format", "", "log format override (json, console)")
	flags.StringP("output-format", "o", "", "type of output override: pretty, csv")

	root.AddCommand(
		newInvestCmd(a),
		newBudgetCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateStoreDriver(conf.Store.Driver); err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loadSettings reads the --settings file, or starts from the defaults.
func (a *app) loadSettings() (config.Settings, error) {
	if a.settingsPath == "" {
		return config.DefaultSettings(), nil
	}

	settings, err := config.LoadSettings(a.settingsPath)
	if err != nil {
		return config.Settings{}, err
	}
	a.logger.Debug("loaded settings file",
		zap.String("op", "main.loadSettings"),
		zap.String("path", a.settingsPath),
	)
	return *settings, nil
}

func (a *app) warn(settings config.Settings) {
	for _, warning := range settings.ValidateSettings() {
		a.logger.Warn("Settings warning: "+warning,
			zap.String("op", "main"),
		)
	}
}

func (a *app) runForecast(cmd *cobra.Command, _ []string) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	result, err := forecast.Compute(a.logger, settings)
	if err != nil {
		return err
	}

	switch a.conf.Output.Format {
	case constants.OutputFormatCSV:
		fmt.Fprint(cmd.OutOrStdout(), output.CsvString(result))
	default:
		output.Pretty(cmd.OutOrStdout(), result)
	}
	return nil
}
