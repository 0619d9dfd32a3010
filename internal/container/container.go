// Package container provides dependency injection for the fin-insights
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"path/filepath"

	"fjacquet/fin-insights/internal/anomaly"
	"fjacquet/fin-insights/internal/categorizer"
	"fjacquet/fin-insights/internal/common"
	"fjacquet/fin-insights/internal/config"
	"fjacquet/fin-insights/internal/fileutils"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/projection"
	"fjacquet/fin-insights/internal/recurrence"
	"fjacquet/fin-insights/internal/reminder"
	"fjacquet/fin-insights/internal/store"
	"fjacquet/fin-insights/internal/store/sqlitestore"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; dependencies are reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.Store
	categorizer *categorizer.Categorizer
	detector    *recurrence.Detector
	scorer      *anomaly.Scorer
	calculator  *projection.Calculator
	reminders   *reminder.Service
	importer    *common.Importer
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return NewContainerWithLogger(cfg, logger)
}

// NewContainerWithLogger is NewContainer with a caller-supplied logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	rules := categorizer.DefaultKeywordRules()
	if cfg.Insights.RulesFile != "" {
		loaded, err := store.LoadKeywordRules(cfg.Insights.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load keyword rules: %w", err)
		}
		rules = loaded
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	policy := cfg.Insights
	detector := recurrence.NewDetector(st, policy, logger)
	scorer := anomaly.NewScorer(st, policy, logger)
	cat := categorizer.NewCategorizer(st, rules, policy, detector, scorer, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldBackend, Value: cfg.Data.Backend},
		logging.Field{Key: "strategies", Value: cat.Strategies()})

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       st,
		categorizer: cat,
		detector:    detector,
		scorer:      scorer,
		calculator:  projection.NewCalculator(st, policy, logger),
		reminders:   reminder.NewService(st, policy, logger),
		importer:    common.NewImporter(st, cat, logger),
	}, nil
}

func openStore(cfg *config.Config, logger logging.Logger) (store.Store, error) {
	path := cfg.DataPath()
	switch cfg.Data.Backend {
	case config.BackendSQLite:
		if path != ":memory:" {
			if err := fileutils.EnsureDirectoryExists(filepath.Dir(path), models.PermissionDirectory); err != nil {
				return nil, fmt.Errorf("failed to prepare data directory: %w", err)
			}
		}
		st, err := sqlitestore.New(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite ledger: %w", err)
		}
		return st, nil
	case config.BackendYAML, "":
		st, err := store.NewFileStore(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.Data.Backend)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the record store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetCategorizer returns the classifier and mapping resolver.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDetector returns the recurrence detector.
func (c *Container) GetDetector() *recurrence.Detector {
	return c.detector
}

// GetScorer returns the anomaly scorer.
func (c *Container) GetScorer() *anomaly.Scorer {
	return c.scorer
}

// GetCalculator returns the budget and goal calculator.
func (c *Container) GetCalculator() *projection.Calculator {
	return c.calculator
}

// GetReminders returns the reminder service.
func (c *Container) GetReminders() *reminder.Service {
	return c.reminders
}

// GetImporter returns the CSV importer.
func (c *Container) GetImporter() *common.Importer {
	return c.importer
}

// Close releases the record store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
