// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override, e.g. FIN_LOG_LEVEL.
const EnvPrefix = "FIN"

// LogConfig selects the log level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DataConfig locates the ledger.
type DataConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	Directory string `mapstructure:"directory" yaml:"directory"`
	File      string `mapstructure:"file" yaml:"file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig            `mapstructure:"log" yaml:"log"`
	Data     DataConfig           `mapstructure:"data" yaml:"data"`
	Server   ServerConfig         `mapstructure:"server" yaml:"server"`
	Insights models.InsightPolicy `mapstructure:"insights" yaml:"insights"`
}

// DataPath returns the ledger file. A relative file is resolved against the
// data directory, which defaults to ~/.fin-insights. An empty file name picks
// one matching the backend.
func (c *Config) DataPath() string {
	file := c.Data.File
	if file == "" {
		file = "ledger.yaml"
		if c.Data.Backend == BackendSQLite {
			file = "ledger.db"
		}
	}
	if filepath.IsAbs(file) || file == ":memory:" {
		return file
	}

	dir := c.Data.Directory
	if dir == "" {
		dir = ".fin-insights"
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".fin-insights")
		}
	}
	return filepath.Join(dir, file)
}

// InitializeConfig loads configuration from defaults, the first config.yaml
// found in $HOME/.fin-insights, .fin-insights or the working directory, then
// FIN_* environment variables.
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig is InitializeConfig with an explicit config file. An empty
// configFile searches the standard locations.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.fin-insights")
		v.AddConfigPath(".fin-insights")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Data defaults
	v.SetDefault("data.backend", BackendYAML)
	v.SetDefault("data.directory", "")
	v.SetDefault("data.file", "")

	v.SetDefault("server.address", ":8080")

	// Insight thresholds
	p := models.DefaultInsightPolicy()
	v.SetDefault("insights.mapping_similarity", p.MappingSimilarity)
	v.SetDefault("insights.mapping_exact_confidence", p.MappingExactConfidence)
	v.SetDefault("insights.mapping_fuzzy_weight", p.MappingFuzzyWeight)
	v.SetDefault("insights.recurrence_similarity", p.RecurrenceSimilarity)
	v.SetDefault("insights.recurrence_confidence", p.RecurrenceConfidence)
	v.SetDefault("insights.recurrence_sample_target", p.RecurrenceSampleTarget)
	v.SetDefault("insights.recent_recurrence_days", p.RecentRecurrenceDays)
	v.SetDefault("insights.recent_recurrence_min", p.RecentRecurrenceMin)
	v.SetDefault("insights.anomaly_threshold", p.AnomalyThreshold)
	v.SetDefault("insights.anomaly_scan_days", p.AnomalyScanDays)
	v.SetDefault("insights.anomaly_snooze_days", p.AnomalySnoozeDays)
	v.SetDefault("insights.savings_window_days", p.SavingsWindowDays)
	v.SetDefault("insights.behind_schedule_ratio", p.BehindScheduleRatio)
	v.SetDefault("insights.deadline_nudge_days", p.DeadlineNudgeDays)
	v.SetDefault("insights.reminder_snooze_days", p.ReminderSnoozeDays)
	v.SetDefault("insights.reminder_due_days", p.ReminderDueDays)
	v.SetDefault("insights.rules_file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Data.Backend != BackendYAML && config.Data.Backend != BackendSQLite {
		return fmt.Errorf("invalid data backend: %s (must be '%s' or '%s')", config.Data.Backend, BackendYAML, BackendSQLite)
	}

	if strings.TrimSpace(config.Server.Address) == "" {
		return fmt.Errorf("server.address must not be empty")
	}

	return config.Insights.Validate()
}

// ConfigureLoggingFromConfig builds the application logger from the log
// section.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
