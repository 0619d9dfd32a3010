package projection

import (
	"context"
	"strings"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/shopspring/decimal"
)

// SetBudget creates the budget for its (category, period) pair, or overwrites
// the amount and start date of the one already there. An empty period means
// monthly and a zero start date means today.
func (c *Calculator) SetBudget(ctx context.Context, in models.Budget) (models.Budget, error) {
	b, err := c.normalizeBudget(in)
	if err != nil {
		return models.Budget{}, err
	}

	budgets, err := c.store.ListBudgets(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	for _, existing := range budgets {
		if existing.Category == b.Category && existing.PeriodType == b.PeriodType {
			existing.Amount = b.Amount
			existing.StartDate = b.StartDate
			b = existing
			break
		}
	}

	if err := c.store.SaveBudget(ctx, &b); err != nil {
		return models.Budget{}, err
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldBudgetID, Value: b.ID},
		logging.Field{Key: logging.FieldCategory, Value: b.Category},
		logging.Field{Key: "period_type", Value: b.PeriodType},
	).Info("Saved budget")
	return b, nil
}

// UpdateBudget replaces the fields of an existing budget. Moving it onto the
// (category, period) pair of another budget is rejected.
func (c *Calculator) UpdateBudget(ctx context.Context, id string, in models.Budget) (models.Budget, error) {
	if _, err := c.store.GetBudget(ctx, id); err != nil {
		return models.Budget{}, err
	}
	b, err := c.normalizeBudget(in)
	if err != nil {
		return models.Budget{}, err
	}
	b.ID = id

	budgets, err := c.store.ListBudgets(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	for _, other := range budgets {
		if other.ID != id && other.Category == b.Category && other.PeriodType == b.PeriodType {
			return models.Budget{}, ledgererror.NewValidation("category", b.Category, "a budget already exists for this period")
		}
	}

	if err := c.store.SaveBudget(ctx, &b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (c *Calculator) normalizeBudget(in models.Budget) (models.Budget, error) {
	b := in
	b.ID = ""
	b.Category = strings.TrimSpace(b.Category)
	if b.PeriodType == "" {
		b.PeriodType = models.PeriodMonthly
	}
	if !b.PeriodType.Valid() {
		return models.Budget{}, ledgererror.NewValidation("period_type", string(b.PeriodType), "must be monthly or weekly")
	}
	if !b.Amount.IsPositive() {
		return models.Budget{}, ledgererror.NewValidation("amount", b.Amount.String(), "must be positive")
	}
	if b.StartDate.IsZero() {
		b.StartDate = dateutils.StartOfDay(c.Now())
	}
	return b, nil
}

// GetBudget returns a budget by id.
func (c *Calculator) GetBudget(ctx context.Context, id string) (models.Budget, error) {
	return c.store.GetBudget(ctx, id)
}

// ListBudgets returns every budget.
func (c *Calculator) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	return c.store.ListBudgets(ctx)
}

// DeleteBudget removes a budget by id.
func (c *Calculator) DeleteBudget(ctx context.Context, id string) error {
	return c.store.DeleteBudget(ctx, id)
}

// BudgetStatus evaluates one budget over the current period.
func (c *Calculator) BudgetStatus(ctx context.Context, id string) (models.BudgetStatus, error) {
	b, err := c.store.GetBudget(ctx, id)
	if err != nil {
		return models.BudgetStatus{}, err
	}
	return c.status(ctx, b)
}

// BudgetStatuses evaluates every budget over its current period.
func (c *Calculator) BudgetStatuses(ctx context.Context) ([]models.BudgetStatus, error) {
	budgets, err := c.store.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := c.status(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// status computes spending for the calendar month or week containing today.
// The stored start date does not anchor the window.
func (c *Calculator) status(ctx context.Context, b models.Budget) (models.BudgetStatus, error) {
	today := c.Now()
	start, end := dateutils.StartOfMonth(today), dateutils.EndOfMonth(today)
	if b.PeriodType == models.PeriodWeekly {
		start, end = dateutils.StartOfWeek(today), dateutils.EndOfWeek(today)
	}

	txs, err := c.store.ListTransactions(ctx, models.TransactionFilter{
		Kind:  models.KindExpense,
		Since: start,
		Until: end,
	})
	if err != nil {
		return models.BudgetStatus{}, err
	}

	spent := decimal.Zero
	for _, tx := range txs {
		if b.IsOverall() || tx.Category == b.Category {
			spent = spent.Add(tx.Amount)
		}
	}

	st := models.BudgetStatus{
		Budget:         b,
		PeriodStart:    start,
		PeriodEnd:      end,
		Spent:          spent,
		Remaining:      b.Amount.Sub(spent),
		ProjectedSpent: spent,
		IsOverBudget:   spent.GreaterThan(b.Amount),
	}
	if b.Amount.IsPositive() {
		st.UtilizationPct = round(spent.Div(b.Amount).InexactFloat64()*100, 2)
	}

	daysPassed := dateutils.DaysBetween(start, today) + 1
	totalDays := dateutils.DaysBetween(start, end) + 1
	if daysPassed > 0 {
		st.ProjectedSpent = spent.Div(decimal.NewFromInt(int64(daysPassed))).
			Mul(decimal.NewFromInt(int64(totalDays))).
			Round(2)
	}
	return st, nil
}
