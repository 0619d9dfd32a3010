package store

import (
	"context"

	"fjacquet/fin-insights/internal/models"
)

// TransactionStore reads and appends ledger transactions.
type TransactionStore interface {
	AddTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

// MappingStore persists merchant corrections. FindMapping returns nil when no
// mapping has the exact normalized key.
type MappingStore interface {
	FindMapping(ctx context.Context, merchant string) (*models.MerchantMapping, error)
	ListMappings(ctx context.Context) ([]models.MerchantMapping, error)
	SaveMapping(ctx context.Context, m *models.MerchantMapping) error
}

// RecurringStore persists confirmed recurring tags, unique per merchant.
type RecurringStore interface {
	SaveRecurringTag(ctx context.Context, tag *models.RecurringTag) error
	GetRecurringTag(ctx context.Context, id string) (models.RecurringTag, error)
	ListRecurringTags(ctx context.Context) ([]models.RecurringTag, error)
	DeleteRecurringTag(ctx context.Context, id string) error
}

// AnomalyStore persists anomaly records, unique per transaction.
type AnomalyStore interface {
	FindAnomalyByTransaction(ctx context.Context, transactionID string) (*models.AnomalyRecord, error)
	CreateAnomaly(ctx context.Context, rec *models.AnomalyRecord) error
	GetAnomaly(ctx context.Context, id string) (models.AnomalyRecord, error)
	UpdateAnomaly(ctx context.Context, rec models.AnomalyRecord) error
	ListAnomalies(ctx context.Context) ([]models.AnomalyRecord, error)
}

// BudgetStore persists budgets.
type BudgetStore interface {
	SaveBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, id string) (models.Budget, error)
	ListBudgets(ctx context.Context) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// GoalStore persists goals and their contribution log. AddContribution appends
// the contribution and raises the goal's current amount in one step; it is the
// only writer of that amount, and SaveGoal on an existing goal leaves it alone.
type GoalStore interface {
	SaveGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	ListGoals(ctx context.Context) ([]models.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	AddContribution(ctx context.Context, c *models.GoalContribution) (models.Goal, error)
	ListContributions(ctx context.Context, goalID string) ([]models.GoalContribution, error)
}

// ReminderStore persists reminders.
type ReminderStore interface {
	SaveReminder(ctx context.Context, r *models.Reminder) error
	GetReminder(ctx context.Context, id string) (models.Reminder, error)
	ListReminders(ctx context.Context) ([]models.Reminder, error)
}

// CategoryStore renames a category across every record in one atomic step.
type CategoryStore interface {
	MergeCategory(ctx context.Context, source, target string) (models.CategoryMergeResult, error)
}

// Store is the full record store behind the insights engine.
type Store interface {
	TransactionStore
	MappingStore
	RecurringStore
	AnomalyStore
	BudgetStore
	GoalStore
	ReminderStore
	CategoryStore
	Close() error
}
