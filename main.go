package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/fin-insights/cmd/anomalies"
	"fjacquet/fin-insights/cmd/budget"
	"fjacquet/fin-insights/cmd/categories"
	"fjacquet/fin-insights/cmd/classify"
	"fjacquet/fin-insights/cmd/confirm"
	"fjacquet/fin-insights/cmd/goal"
	"fjacquet/fin-insights/cmd/importer"
	"fjacquet/fin-insights/cmd/mappings"
	"fjacquet/fin-insights/cmd/recurring"
	"fjacquet/fin-insights/cmd/reminder"
	"fjacquet/fin-insights/cmd/report"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/cmd/serve"
	"fjacquet/fin-insights/internal/config"
	"fjacquet/fin-insights/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env before anything reads FIN_* variables
	config.LoadEnv(nil)

	// 2. Early log level, until the config file is read
	logging.SetAllLogLevels(logLevelFromEnv())

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(confirm.Cmd)
	root.Cmd.AddCommand(mappings.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(anomalies.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(goal.Cmd)
	root.Cmd.AddCommand(reminder.Cmd)
	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// logLevelFromEnv parses FIN_LOG_LEVEL, defaulting to info.
func logLevelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
