package categorizer

import (
	"context"

	"fjacquet/fin-insights/internal/models"

	"github.com/shopspring/decimal"
)

// MappingStore is the persistence the resolver needs: an exact lookup by
// normalized merchant and a scan of every mapping. FindMapping returns nil
// when no mapping has the key.
type MappingStore interface {
	FindMapping(ctx context.Context, merchant string) (*models.MerchantMapping, error)
	ListMappings(ctx context.Context) ([]models.MerchantMapping, error)
	SaveMapping(ctx context.Context, m *models.MerchantMapping) error
}

// CategoryStore adds the category-wide rename behind MergeCategory.
type CategoryStore interface {
	MappingStore
	MergeCategory(ctx context.Context, source, target string) (models.CategoryMergeResult, error)
}

// RecurrenceSignal reports whether a normalized merchant recurred recently.
type RecurrenceSignal interface {
	RecentlyRecurring(ctx context.Context, normalizedMerchant string) (bool, error)
}

// AnomalySignal flags unusual amounts.
type AnomalySignal interface {
	IsAnomalous(amount decimal.NullDecimal, category string) bool
}
