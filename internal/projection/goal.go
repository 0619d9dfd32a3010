package projection

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/shopspring/decimal"
)

// CreateGoal stores a new goal stamped with the current time.
func (c *Calculator) CreateGoal(ctx context.Context, req models.GoalRequest) (models.Goal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Goal{}, ledgererror.NewValidation("name", "", "must not be empty")
	}
	if !req.TargetAmount.IsPositive() {
		return models.Goal{}, ledgererror.NewValidation("target_amount", req.TargetAmount.String(), "must be positive")
	}
	if req.InitialAmount.IsNegative() {
		return models.Goal{}, ledgererror.NewValidation("initial_amount", req.InitialAmount.String(), "must not be negative")
	}

	goal := models.Goal{
		Name:          name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      req.Deadline,
		CreatedAt:     c.Now(),
	}
	if err := c.store.SaveGoal(ctx, &goal); err != nil {
		return models.Goal{}, err
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldGoalID, Value: goal.ID},
		logging.Field{Key: "name", Value: goal.Name},
	).Info("Created goal")

	if req.InitialAmount.IsPositive() {
		return c.Contribute(ctx, goal.ID, req.InitialAmount)
	}
	return goal, nil
}

// Contribute appends a deposit to the goal's contribution log.
func (c *Calculator) Contribute(ctx context.Context, goalID string, amount decimal.Decimal) (models.Goal, error) {
	if !amount.IsPositive() {
		return models.Goal{}, ledgererror.NewValidation("amount", amount.String(), "must be positive")
	}
	goal, err := c.store.AddContribution(ctx, &models.GoalContribution{
		GoalID:    goalID,
		Amount:    amount,
		CreatedAt: c.Now(),
	})
	if err != nil {
		return models.Goal{}, err
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldGoalID, Value: goalID},
		logging.Field{Key: "amount", Value: amount.String()},
	).Debug("Recorded goal contribution")
	return goal, nil
}

// UpdateGoal applies the non-nil fields of upd.
func (c *Calculator) UpdateGoal(ctx context.Context, id string, upd models.GoalUpdate) (models.Goal, error) {
	goal, err := c.store.GetGoal(ctx, id)
	if err != nil {
		return models.Goal{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return models.Goal{}, ledgererror.NewValidation("name", "", "must not be empty")
		}
		goal.Name = name
	}
	if upd.TargetAmount != nil {
		if !upd.TargetAmount.IsPositive() {
			return models.Goal{}, ledgererror.NewValidation("target_amount", upd.TargetAmount.String(), "must be positive")
		}
		goal.TargetAmount = *upd.TargetAmount
	}
	switch {
	case upd.ClearDeadline:
		goal.Deadline = nil
	case upd.Deadline != nil:
		deadline := *upd.Deadline
		goal.Deadline = &deadline
	}

	if err := c.store.SaveGoal(ctx, &goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// GetGoal returns a goal by id.
func (c *Calculator) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	return c.store.GetGoal(ctx, id)
}

// ListGoals returns every goal.
func (c *Calculator) ListGoals(ctx context.Context) ([]models.Goal, error) {
	return c.store.ListGoals(ctx)
}

// DeleteGoal removes a goal and its contribution log.
func (c *Calculator) DeleteGoal(ctx context.Context, id string) error {
	return c.store.DeleteGoal(ctx, id)
}

// Contributions returns a goal's contribution log, oldest first.
func (c *Calculator) Contributions(ctx context.Context, goalID string) ([]models.GoalContribution, error) {
	if _, err := c.store.GetGoal(ctx, goalID); err != nil {
		return nil, err
	}
	return c.store.ListContributions(ctx, goalID)
}

// GoalProgress reports progress, the savings-trend projection and schedule
// adherence for one goal.
func (c *Calculator) GoalProgress(ctx context.Context, id string) (models.GoalProgress, error) {
	goal, err := c.store.GetGoal(ctx, id)
	if err != nil {
		return models.GoalProgress{}, err
	}
	monthlyNet, err := c.monthlyNetSavings(ctx)
	if err != nil {
		return models.GoalProgress{}, err
	}
	return c.progress(ctx, goal, monthlyNet)
}

// GoalProgresses reports progress for every goal.
func (c *Calculator) GoalProgresses(ctx context.Context) ([]models.GoalProgress, error) {
	goals, err := c.store.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	monthlyNet, err := c.monthlyNetSavings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		p, err := c.progress(ctx, goal, monthlyNet)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// monthlyNetSavings scales the net of income and expenses over the trailing
// savings window to a 30-day month.
func (c *Calculator) monthlyNetSavings(ctx context.Context) (float64, error) {
	window := c.policy.SavingsWindowDays
	txs, err := c.store.ListTransactions(ctx, models.TransactionFilter{
		Since: dateutils.AddDays(c.Now(), -window),
	})
	if err != nil {
		return 0, err
	}
	income, expense := sumByKind(txs)
	net := income.Sub(expense).InexactFloat64()
	return net / float64(window) * 30, nil
}

func (c *Calculator) progress(ctx context.Context, goal models.Goal, monthlyNet float64) (models.GoalProgress, error) {
	today := c.Now()
	if goal.CreatedAt.IsZero() {
		if err := c.backfillCreatedAt(ctx, &goal); err != nil {
			return models.GoalProgress{}, err
		}
	}

	target := goal.TargetAmount.InexactFloat64()
	current := goal.CurrentAmount.InexactFloat64()

	p := models.GoalProgress{
		GoalID:            goal.ID,
		Name:              goal.Name,
		TargetAmount:      goal.TargetAmount,
		CurrentAmount:     goal.CurrentAmount,
		MonthlyNetSavings: round(monthlyNet, 2),
	}
	// Flags are decided on raw ratios; only the reported fields are rounded.
	var pct float64
	if target > 0 {
		pct = current / target * 100
	}
	p.ProgressPct = round(pct, 2)
	p.IsCompleted = pct >= 100

	if monthlyNet > 0 {
		months := math.Max(0, target-current) / monthlyNet
		rounded := round(months, 2)
		p.ProjectedMonthsToComplete = &rounded
		eta := dateutils.AddDays(today, int(math.Round(months*30)))
		p.EstimatedCompletionDate = &eta
	}

	var behind *float64
	if goal.Deadline != nil {
		daysLeft := dateutils.DaysBetween(today, *goal.Deadline)
		p.DaysLeft = &daysLeft

		totalDays := dateutils.DaysBetween(goal.CreatedAt, *goal.Deadline)
		elapsedDays := dateutils.DaysBetween(goal.CreatedAt, today)
		if totalDays > 0 && elapsedDays > 0 && target > 0 {
			expected := target * clamp01(float64(elapsedDays)/float64(totalDays))
			raw := math.Max(0, expected-current) / target
			behind = &raw
			reported := round(raw, 3)
			p.BehindPct = &reported
		}
	}

	p.Message = c.goalMessage(p, behind)
	return p, nil
}

// goalMessage picks the nudge for p; behind is the unrounded schedule gap.
func (c *Calculator) goalMessage(p models.GoalProgress, behind *float64) string {
	switch {
	case p.IsCompleted:
		return models.GoalMessageCompleted
	case behind != nil && *behind > c.policy.BehindScheduleRatio:
		return fmt.Sprintf(models.GoalMessageBehindFormat, round(*behind*100, 1))
	case p.DaysLeft != nil && *p.DaysLeft <= c.policy.DeadlineNudgeDays:
		return models.GoalMessageDeadlineNear
	default:
		return models.GoalMessageEncouragement
	}
}

// backfillCreatedAt stamps a goal that predates creation timestamps with its
// earliest contribution, or the current time when it has none.
func (c *Calculator) backfillCreatedAt(ctx context.Context, goal *models.Goal) error {
	contributions, err := c.store.ListContributions(ctx, goal.ID)
	if err != nil {
		return err
	}
	createdAt := c.Now()
	if len(contributions) > 0 {
		createdAt = contributions[0].CreatedAt
	}
	goal.CreatedAt = createdAt
	if err := c.store.SaveGoal(ctx, goal); err != nil {
		return fmt.Errorf("backfilling goal creation time: %w", err)
	}

	c.logger.Debug("Backfilled goal creation time",
		logging.Field{Key: logging.FieldGoalID, Value: goal.ID},
		logging.Field{Key: "created_at", Value: createdAt.Format(time.RFC3339)})
	return nil
}
