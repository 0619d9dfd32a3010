// Package projection extrapolates budget utilization and savings-goal
// completion from historical sums, and manages the budgets and goals it
// evaluates.
package projection

import (
	"context"
	"math"
	"time"

	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"

	"github.com/shopspring/decimal"
)

// Store is the subset of the record store the calculator needs.
type Store interface {
	store.TransactionStore
	store.BudgetStore
	store.GoalStore
}

// Calculator evaluates budgets and goals against the current date.
type Calculator struct {
	store  Store
	policy models.InsightPolicy
	logger logging.Logger

	Now func() time.Time
}

// NewCalculator creates a Calculator.
func NewCalculator(st Store, policy models.InsightPolicy, logger logging.Logger) *Calculator {
	return &Calculator{
		store:  st,
		policy: policy,
		logger: logging.OrDefault(logger),
		Now:    time.Now,
	}
}

// Summary totals income and expenses over the whole ledger.
func (c *Calculator) Summary(ctx context.Context) (models.Summary, error) {
	txs, err := c.store.ListTransactions(ctx, models.TransactionFilter{})
	if err != nil {
		return models.Summary{}, err
	}
	income, expense := sumByKind(txs)
	return models.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

func sumByKind(txs []models.Transaction) (income, expense decimal.Decimal) {
	for _, tx := range txs {
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount)
		case tx.IsExpense():
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
