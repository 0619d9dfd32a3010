package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/fin-insights/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, once per process. Variables already set win.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logging.OrDefault(logger), ".env", filepath.Join("..", ".env"))
	})
}

func loadEnvFile(logger logging.Logger, candidates ...string) bool {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return false
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldInputFile, Value: envFile})
		return true
	}
	logger.Debug("No .env file found, using environment variables")
	return false
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
