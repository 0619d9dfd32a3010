package store

import (
	"context"

	"fjacquet/fin-insights/internal/models"
)

// MockStore wraps an in-memory FileStore and lets tests inject failures.
type MockStore struct {
	*FileStore

	ListTransactionsError error
	FindMappingError      error
	ListMappingsError     error
	SaveMappingError      error
	CreateAnomalyError    error
	ListBudgetsError      error
	AddContributionError  error
}

// NewMockStore returns a MockStore with no injected errors.
func NewMockStore() *MockStore {
	return &MockStore{FileStore: NewMemoryStore(nil)}
}

func (m *MockStore) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if m.ListTransactionsError != nil {
		return nil, m.ListTransactionsError
	}
	return m.FileStore.ListTransactions(ctx, filter)
}

func (m *MockStore) FindMapping(ctx context.Context, merchant string) (*models.MerchantMapping, error) {
	if m.FindMappingError != nil {
		return nil, m.FindMappingError
	}
	return m.FileStore.FindMapping(ctx, merchant)
}

func (m *MockStore) ListMappings(ctx context.Context) ([]models.MerchantMapping, error) {
	if m.ListMappingsError != nil {
		return nil, m.ListMappingsError
	}
	return m.FileStore.ListMappings(ctx)
}

func (m *MockStore) SaveMapping(ctx context.Context, mapping *models.MerchantMapping) error {
	if m.SaveMappingError != nil {
		return m.SaveMappingError
	}
	return m.FileStore.SaveMapping(ctx, mapping)
}

func (m *MockStore) CreateAnomaly(ctx context.Context, rec *models.AnomalyRecord) error {
	if m.CreateAnomalyError != nil {
		return m.CreateAnomalyError
	}
	return m.FileStore.CreateAnomaly(ctx, rec)
}

func (m *MockStore) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	if m.ListBudgetsError != nil {
		return nil, m.ListBudgetsError
	}
	return m.FileStore.ListBudgets(ctx)
}

func (m *MockStore) AddContribution(ctx context.Context, c *models.GoalContribution) (models.Goal, error) {
	if m.AddContributionError != nil {
		return models.Goal{}, m.AddContributionError
	}
	return m.FileStore.AddContribution(ctx, c)
}
