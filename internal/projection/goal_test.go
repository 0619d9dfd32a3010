package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createGoalAt(t *testing.T, c *Calculator, at time.Time, req models.GoalRequest) models.Goal {
	t.Helper()
	c.Now = func() time.Time { return at }
	defer func() { c.Now = func() time.Time { return today } }()

	goal, err := c.CreateGoal(context.Background(), req)
	require.NoError(t, err)
	return goal
}

func deadline(offset int) *time.Time {
	d := day(offset)
	return &d
}

func TestCalculator_GoalProgressMessages(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		req       models.GoalRequest
		pct       float64
		daysLeft  *int
		behind    *float64
		completed bool
		message   string
	}{
		{
			name:      "behind schedule triggers the nudge",
			createdAt: day(-90),
			req:       models.GoalRequest{Name: "Car", TargetAmount: dec("1000"), InitialAmount: dec("500"), Deadline: deadline(10)},
			pct:       50,
			daysLeft:  intPtr(10),
			behind:    floatPtr(0.4),
			message:   "You're behind schedule by 40.0% - consider increasing contributions.",
		},
		{
			name:      "slightly behind gets encouragement",
			createdAt: day(-90),
			req:       models.GoalRequest{Name: "Car", TargetAmount: dec("1000"), InitialAmount: dec("850"), Deadline: deadline(10)},
			pct:       85,
			daysLeft:  intPtr(10),
			behind:    floatPtr(0.05),
			message:   models.GoalMessageEncouragement,
		},
		{
			name:      "just past the nudge threshold before rounding",
			createdAt: day(-90),
			req:       models.GoalRequest{Name: "Car", TargetAmount: dec("1000"), InitialAmount: dec("699.6"), Deadline: deadline(10)},
			pct:       69.96,
			daysLeft:  intPtr(10),
			behind:    floatPtr(0.2),
			message:   "You're behind schedule by 20.0% - consider increasing contributions.",
		},
		{
			name:      "rounds to 100 but is not completed",
			createdAt: day(-30),
			req:       models.GoalRequest{Name: "House", TargetAmount: dec("250000"), InitialAmount: dec("249999")},
			pct:       100,
			message:   models.GoalMessageEncouragement,
		},
		{
			name:      "close deadline",
			createdAt: day(-95),
			req:       models.GoalRequest{Name: "Trip", TargetAmount: dec("1000"), InitialAmount: dec("900"), Deadline: deadline(5)},
			pct:       90,
			daysLeft:  intPtr(5),
			behind:    floatPtr(0.05),
			message:   models.GoalMessageDeadlineNear,
		},
		{
			name:      "ahead of schedule",
			createdAt: day(-10),
			req:       models.GoalRequest{Name: "Laptop", TargetAmount: dec("1000"), InitialAmount: dec("600"), Deadline: deadline(90)},
			pct:       60,
			daysLeft:  intPtr(90),
			behind:    floatPtr(0),
			message:   models.GoalMessageEncouragement,
		},
		{
			name:      "completed goal",
			createdAt: day(-30),
			req:       models.GoalRequest{Name: "Phone", TargetAmount: dec("500"), InitialAmount: dec("650"), Deadline: deadline(-1)},
			pct:       130,
			daysLeft:  intPtr(-1),
			behind:    floatPtr(0),
			completed: true,
			message:   models.GoalMessageCompleted,
		},
		{
			name:      "no deadline",
			createdAt: day(-30),
			req:       models.GoalRequest{Name: "Rainy day", TargetAmount: dec("3000"), InitialAmount: dec("1000")},
			pct:       33.33,
			message:   models.GoalMessageEncouragement,
		},
		{
			name:      "created today has no schedule yet",
			createdAt: today,
			req:       models.GoalRequest{Name: "New", TargetAmount: dec("100"), Deadline: deadline(3)},
			pct:       0,
			daysLeft:  intPtr(3),
			message:   models.GoalMessageDeadlineNear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCalculator(t)
			goal := createGoalAt(t, c, tt.createdAt, tt.req)

			got, err := c.GoalProgress(context.Background(), goal.ID)
			require.NoError(t, err)
			assert.Equal(t, goal.ID, got.GoalID)
			assert.InDelta(t, tt.pct, got.ProgressPct, 1e-9)
			assert.Equal(t, tt.completed, got.IsCompleted)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.daysLeft, got.DaysLeft)
			if tt.behind == nil {
				assert.Nil(t, got.BehindPct)
			} else {
				require.NotNil(t, got.BehindPct)
				assert.InDelta(t, *tt.behind, *got.BehindPct, 1e-9)
			}
			assert.Nil(t, got.ProjectedMonthsToComplete, "no savings history")
			assert.Zero(t, got.MonthlyNetSavings)
		})
	}
}

func TestCalculator_GoalSavingsProjection(t *testing.T) {
	c, st := newTestCalculator(t)
	addTx(t, st, models.KindIncome, models.CategorySalary, "3000", day(-10))
	addTx(t, st, models.KindExpense, models.CategoryRent, "1200", day(-20))
	addTx(t, st, models.KindExpense, models.CategoryRent, "5000", day(-100))

	goal := createGoalAt(t, c, day(-5), models.GoalRequest{Name: "Bike", TargetAmount: dec("2000"), InitialAmount: dec("200")})

	got, err := c.GoalProgress(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 600, got.MonthlyNetSavings, 1e-9)
	require.NotNil(t, got.ProjectedMonthsToComplete)
	assert.InDelta(t, 3, *got.ProjectedMonthsToComplete, 1e-9)
	require.NotNil(t, got.EstimatedCompletionDate)
	assert.True(t, day(90).Equal(*got.EstimatedCompletionDate), "eta %s", got.EstimatedCompletionDate)
}

func TestCalculator_GoalNegativeSavingsHasNoProjection(t *testing.T) {
	c, st := newTestCalculator(t)
	addTx(t, st, models.KindExpense, models.CategoryRent, "1200", day(-20))
	goal := createGoalAt(t, c, day(-5), models.GoalRequest{Name: "Bike", TargetAmount: dec("2000")})

	got, err := c.GoalProgress(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, -400, got.MonthlyNetSavings, 1e-9)
	assert.Nil(t, got.ProjectedMonthsToComplete)
	assert.Nil(t, got.EstimatedCompletionDate)
}

func TestCalculator_GoalContributions(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCalculator(t)

	goal, err := c.CreateGoal(ctx, models.GoalRequest{Name: " Holiday ", TargetAmount: dec("1000"), InitialAmount: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, "Holiday", goal.Name)
	assert.Equal(t, "100", goal.CurrentAmount.String())

	goal, err = c.Contribute(ctx, goal.ID, dec("250.50"))
	require.NoError(t, err)
	assert.Equal(t, "350.5", goal.CurrentAmount.String())

	contributions, err := c.Contributions(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 2)
	sum := decimal.Zero
	for _, contribution := range contributions {
		sum = sum.Add(contribution.Amount)
	}
	assert.True(t, sum.Equal(goal.CurrentAmount), "current amount equals the contribution total")

	_, err = c.Contribute(ctx, goal.ID, decimal.Zero)
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
	_, err = c.Contribute(ctx, "missing", dec("1"))
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
	_, err = c.Contributions(ctx, "missing")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
}

func TestCalculator_CreateGoalWithoutInitialAmount(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCalculator(t)

	goal, err := c.CreateGoal(ctx, models.GoalRequest{Name: "Emergency", TargetAmount: dec("5000")})
	require.NoError(t, err)
	assert.True(t, goal.CurrentAmount.IsZero())
	assert.True(t, today.Equal(goal.CreatedAt))

	contributions, err := c.Contributions(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, contributions)
}

func TestCalculator_GoalValidation(t *testing.T) {
	c, _ := newTestCalculator(t)

	tests := []struct {
		name string
		req  models.GoalRequest
	}{
		{name: "missing name", req: models.GoalRequest{TargetAmount: dec("10")}},
		{name: "zero target", req: models.GoalRequest{Name: "x"}},
		{name: "negative initial", req: models.GoalRequest{Name: "x", TargetAmount: dec("10"), InitialAmount: dec("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateGoal(context.Background(), tt.req)
			assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
		})
	}
}

func TestCalculator_UpdateAndDeleteGoal(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCalculator(t)
	goal, err := c.CreateGoal(ctx, models.GoalRequest{Name: "Car", TargetAmount: dec("1000"), Deadline: deadline(30)})
	require.NoError(t, err)

	name := "New car"
	target := dec("1500")
	updated, err := c.UpdateGoal(ctx, goal.ID, models.GoalUpdate{Name: &name, TargetAmount: &target})
	require.NoError(t, err)
	assert.Equal(t, "New car", updated.Name)
	assert.Equal(t, "1500", updated.TargetAmount.String())
	require.NotNil(t, updated.Deadline)

	cleared, err := c.UpdateGoal(ctx, goal.ID, models.GoalUpdate{ClearDeadline: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Deadline)

	zero := decimal.Zero
	_, err = c.UpdateGoal(ctx, goal.ID, models.GoalUpdate{TargetAmount: &zero})
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)

	goals, err := c.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	progresses, err := c.GoalProgresses(ctx)
	require.NoError(t, err)
	assert.Len(t, progresses, 1)

	require.NoError(t, c.DeleteGoal(ctx, goal.ID))
	_, err = c.GetGoal(ctx, goal.ID)
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
	_, err = c.GoalProgress(ctx, goal.ID)
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
}

// contributingStore records a contribution right after every goal read, the
// way a concurrent request would land between UpdateGoal's read and write.
type contributingStore struct {
	*store.MockStore
	amount decimal.Decimal
}

func (s *contributingStore) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	g, err := s.MockStore.GetGoal(ctx, id)
	if err != nil {
		return g, err
	}
	_, err = s.MockStore.AddContribution(ctx, &models.GoalContribution{GoalID: id, Amount: s.amount})
	return g, err
}

func TestCalculator_UpdateGoalKeepsConcurrentContribution(t *testing.T) {
	ctx := context.Background()
	base := store.NewMockStore()
	goal := models.Goal{Name: "Car", TargetAmount: dec("1000"), CreatedAt: today}
	require.NoError(t, base.SaveGoal(ctx, &goal))
	_, err := base.AddContribution(ctx, &models.GoalContribution{GoalID: goal.ID, Amount: dec("100")})
	require.NoError(t, err)

	c := NewCalculator(&contributingStore{MockStore: base, amount: dec("50")}, models.DefaultInsightPolicy(), logging.NewMockLogger())
	c.Now = func() time.Time { return today }

	name := "Family car"
	updated, err := c.UpdateGoal(ctx, goal.ID, models.GoalUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "150", updated.CurrentAmount.String())

	stored, err := base.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	contribs, err := base.ListContributions(ctx, goal.ID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, ct := range contribs {
		sum = sum.Add(ct.Amount)
	}
	assert.True(t, stored.CurrentAmount.Equal(sum), "current=%s sum=%s", stored.CurrentAmount, sum)
	assert.Equal(t, "Family car", stored.Name)
}

func TestCalculator_GoalCreatedAtBackfill(t *testing.T) {
	ctx := context.Background()

	t.Run("earliest contribution", func(t *testing.T) {
		c, st := newTestCalculator(t)
		legacy := models.Goal{Name: "Legacy", TargetAmount: dec("1000"), Deadline: deadline(10)}
		require.NoError(t, st.SaveGoal(ctx, &legacy))
		_, err := st.AddContribution(ctx, &models.GoalContribution{GoalID: legacy.ID, Amount: dec("100"), CreatedAt: day(-90)})
		require.NoError(t, err)
		_, err = st.AddContribution(ctx, &models.GoalContribution{GoalID: legacy.ID, Amount: dec("100"), CreatedAt: day(-30)})
		require.NoError(t, err)

		got, err := c.GoalProgress(ctx, legacy.ID)
		require.NoError(t, err)
		require.NotNil(t, got.BehindPct)
		assert.InDelta(t, 0.7, *got.BehindPct, 1e-9)

		stored, err := st.GetGoal(ctx, legacy.ID)
		require.NoError(t, err)
		assert.True(t, day(-90).Equal(stored.CreatedAt))
	})

	t.Run("no contributions uses now", func(t *testing.T) {
		c, st := newTestCalculator(t)
		legacy := models.Goal{Name: "Legacy", TargetAmount: dec("1000")}
		require.NoError(t, st.SaveGoal(ctx, &legacy))

		_, err := c.GoalProgress(ctx, legacy.ID)
		require.NoError(t, err)

		stored, err := st.GetGoal(ctx, legacy.ID)
		require.NoError(t, err)
		assert.True(t, today.Equal(stored.CreatedAt))
	})
}

func TestCalculator_GoalStoreErrors(t *testing.T) {
	c, st := newTestCalculator(t)
	goal, err := c.CreateGoal(context.Background(), models.GoalRequest{Name: "Car", TargetAmount: dec("10")})
	require.NoError(t, err)

	st.AddContributionError = errors.New("locked")
	_, err = c.Contribute(context.Background(), goal.ID, dec("1"))
	assert.EqualError(t, err, "locked")

	st.ListTransactionsError = errors.New("offline")
	_, err = c.GoalProgress(context.Background(), goal.ID)
	assert.EqualError(t, err, "offline")
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
