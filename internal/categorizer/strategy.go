package categorizer

import (
	"context"
)

// Transaction is the view of a transaction the strategies work on.
type Transaction struct {
	Merchant   string // raw merchant text
	Notes      string // raw free-text notes
	Normalized string // NormalizeMerchant(Merchant)
}

// CategorizationStrategy defines one way of assigning a category.
type CategorizationStrategy interface {
	// Categorize returns a result whose Found flag tells whether this
	// strategy produced a category. An error means the strategy could not
	// run at all, and the next strategy is tried.
	Categorize(ctx context.Context, tx Transaction) (StrategyResult, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
