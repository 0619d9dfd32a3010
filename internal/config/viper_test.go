package config

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-insights/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at an empty temp dir and
// clears FIN_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"FIN_LOG_LEVEL", "FIN_LOG_FORMAT", "FIN_DATA_BACKEND", "FIN_DATA_DIRECTORY", "FIN_DATA_FILE",
		"FIN_SERVER_ADDRESS", "FIN_INSIGHTS_ANOMALY_THRESHOLD", "FIN_INSIGHTS_MAPPING_SIMILARITY",
		"FIN_INSIGHTS_RULES_FILE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, BackendYAML, config.Data.Backend)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, models.DefaultInsightPolicy(), config.Insights)
	assert.Equal(t, filepath.Join(dir, ".fin-insights", "ledger.yaml"), config.DataPath())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("FIN_LOG_LEVEL", "debug")
	t.Setenv("FIN_LOG_FORMAT", "json")
	t.Setenv("FIN_DATA_BACKEND", "sqlite")
	t.Setenv("FIN_DATA_DIRECTORY", "/var/lib/fin")
	t.Setenv("FIN_INSIGHTS_ANOMALY_THRESHOLD", "250.5")
	t.Setenv("FIN_INSIGHTS_MAPPING_SIMILARITY", "0.85")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, BackendSQLite, config.Data.Backend)
	assert.Equal(t, 250.5, config.Insights.AnomalyThreshold)
	assert.Equal(t, 0.85, config.Insights.MappingSimilarity)
	assert.Equal(t, filepath.Join("/var/lib/fin", "ledger.db"), config.DataPath())
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
  format: "json"
data:
  directory: "ledger-data"
  file: "books.yaml"
server:
  address: "127.0.0.1:9000"
insights:
  anomaly_threshold: 500
  reminder_due_days: 5
  rules_file: "rules.yaml"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
	assert.Equal(t, 500.0, config.Insights.AnomalyThreshold)
	assert.Equal(t, 5, config.Insights.ReminderDueDays)
	assert.Equal(t, "rules.yaml", config.Insights.RulesFile)
	assert.Equal(t, 0.8, config.Insights.MappingSimilarity, "unset keys keep defaults")
	assert.Equal(t, filepath.Join("ledger-data", "books.yaml"), config.DataPath())
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
insights:
  anomaly_threshold: 500
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))
	t.Setenv("FIN_LOG_LEVEL", "error")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level, "env var wins")
	assert.Equal(t, 500.0, config.Insights.AnomalyThreshold, "config file value")
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  backend: sqlite\n  file: \":memory:\"\n"), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, config.Data.Backend)
	assert.Equal(t, ":memory:", config.DataPath())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_InvalidFileValue(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("insights:\n  mapping_similarity: 1.5\n"), 0600))

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insights.mapping_similarity must be between 0 and 1")
}

func validConfig() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		Data:     DataConfig{Backend: BackendYAML},
		Server:   ServerConfig{Address: ":8080"},
		Insights: models.DefaultInsightPolicy(),
	}
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid backend",
			modifyConfig: func(c *Config) { c.Data.Backend = "postgres" },
			expectError:  "invalid data backend",
		},
		{
			name:         "empty server address",
			modifyConfig: func(c *Config) { c.Server.Address = " " },
			expectError:  "server.address must not be empty",
		},
		{
			name:         "negative window",
			modifyConfig: func(c *Config) { c.Insights.AnomalyScanDays = 0 },
			expectError:  "insights.anomaly_scan_days must be positive",
		},
	}

	require.NoError(t, validateConfig(validConfig()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		t.Run(format, func(t *testing.T) {
			config := validConfig()
			config.Log.Format = format
			assert.NotNil(t, ConfigureLoggingFromConfig(config))
		})
	}
}
