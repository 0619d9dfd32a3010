// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/fin-insights/internal/config"
	"fjacquet/fin-insights/internal/container"
	"fjacquet/fin-insights/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	Backend    string
	DataFile   string
	Format     string
	Currency   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fin-insights",
		Short: "A CLI tool that classifies transactions and tracks budgets, goals and recurring payments.",
		Long: `fin-insights keeps a local ledger of transactions and derives insights from it:
merchant classification with user corrections, recurring payment detection,
large expense anomalies, budget utilization and savings goal projections.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil || injected {
				return
			}
			if err := appContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close ledger")
			}
			appContainer = nil
		},
	}

	// SharedFlags holds the persistent flags
	SharedFlags = CommonFlags{}

	appContainer *container.Container
	injected     bool
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.fin-insights, .fin-insights or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Backend, "backend", "", "Ledger backend (yaml or sqlite)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.DataFile, "data", "", "Ledger file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format (text, json, yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Currency, "currency", "", "Currency shown next to amounts in text output (e.g. CHF)")
}

func setup(cmd *cobra.Command, args []string) error {
	if appContainer != nil {
		return nil
	}

	config.LoadEnv(Log)
	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.Backend != "" {
		cfg.Data.Backend = SharedFlags.Backend
	}
	if SharedFlags.DataFile != "" {
		cfg.Data.File = SharedFlags.DataFile
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	appContainer = c
	Log = c.GetLogger()
	logging.SetLogger(Log)
	return nil
}

// GetContainer returns the container built for the running command, or nil
// before the persistent pre-run.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the active configuration, or nil before the persistent
// pre-run.
func GetConfig() *config.Config {
	if appContainer == nil {
		return nil
	}
	return appContainer.GetConfig()
}

// SetContainer installs a prebuilt container. Commands then skip config
// loading and leave closing it to the caller.
func SetContainer(c *container.Container) {
	appContainer = c
	injected = c != nil
	if c != nil {
		Log = c.GetLogger()
	}
}
