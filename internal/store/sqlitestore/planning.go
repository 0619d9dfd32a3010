package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- budgets ---

const budgetColumns = `id, category, amount, period_type, start_date`

func scanBudget(row scanner) (models.Budget, error) {
	var (
		b            models.Budget
		amount, from string
		period       string
	)
	if err := row.Scan(&b.ID, &b.Category, &amount, &period, &from); err != nil {
		return b, err
	}
	var err error
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return b, err
	}
	if b.StartDate, err = parseTime(from); err != nil {
		return b, err
	}
	b.PeriodType = models.PeriodType(period)
	return b, nil
}

// SaveBudget inserts when ID is empty, otherwise replaces the budget with that ID.
func (s *Store) SaveBudget(ctx context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
		_, err := s.db.ExecContext(ctx, `INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?)`,
			b.ID, b.Category, b.Amount.String(), string(b.PeriodType), formatTime(b.StartDate))
		if err != nil {
			return wrap("save budget", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE budgets SET category = ?, amount = ?, period_type = ?, start_date = ? WHERE id = ?`,
		b.Category, b.Amount.String(), string(b.PeriodType), formatTime(b.StartDate), b.ID)
	if err != nil {
		return wrap("save budget", err)
	}
	return notFoundIfNoRows(res, "budget", b.ID, "save budget")
}

func (s *Store) GetBudget(ctx context.Context, id string) (models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Budget{}, ledgererror.NewNotFound("budget", id)
	}
	if err != nil {
		return models.Budget{}, wrap("get budget", err)
	}
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY rowid`)
	if err != nil {
		return nil, wrap("list budgets", err)
	}
	defer rows.Close()

	var out []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrap("list budgets", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list budgets", err)
	}
	return out, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return wrap("delete budget", err)
	}
	return notFoundIfNoRows(res, "budget", id, "delete budget")
}

// --- goals ---

const goalColumns = `id, name, target_amount, current_amount, deadline, created_at`

func scanGoal(row scanner) (models.Goal, error) {
	var (
		g                 models.Goal
		target, current   string
		deadline, created sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Name, &target, &current, &deadline, &created); err != nil {
		return g, err
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return g, err
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return g, err
	}
	if g.Deadline, err = parseNullTime(deadline); err != nil {
		return g, err
	}
	createdAt, err := parseNullTime(created)
	if err != nil {
		return g, err
	}
	if createdAt != nil {
		g.CreatedAt = *createdAt
	}
	return g, nil
}

func goalCreatedAt(g *models.Goal) sql.NullString {
	if g.CreatedAt.IsZero() {
		return sql.NullString{}
	}
	return nullTime(&g.CreatedAt)
}

// SaveGoal inserts when ID is empty, otherwise replaces the goal with that ID.
// The current amount of an existing goal is only moved by AddContribution; g
// receives the stored value.
func (s *Store) SaveGoal(ctx context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
		_, err := s.db.ExecContext(ctx, `INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), nullTime(g.Deadline), goalCreatedAt(g))
		if err != nil {
			return wrap("save goal", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE goals
		SET name = ?, target_amount = ?, deadline = ?, created_at = ? WHERE id = ?`,
		g.Name, g.TargetAmount.String(), nullTime(g.Deadline), goalCreatedAt(g), g.ID)
	if err != nil {
		return wrap("save goal", err)
	}
	if err := notFoundIfNoRows(res, "goal", g.ID, "save goal"); err != nil {
		return err
	}

	stored, err := s.getGoal(ctx, s.db, g.ID)
	if err != nil {
		return err
	}
	g.CurrentAmount = stored.CurrentAmount
	return nil
}

func (s *Store) getGoal(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id string) (models.Goal, error) {
	g, err := scanGoal(q.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, ledgererror.NewNotFound("goal", id)
	}
	if err != nil {
		return models.Goal{}, wrap("get goal", err)
	}
	return g, nil
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getGoal(ctx, s.db, id)
}

func (s *Store) ListGoals(ctx context.Context) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY rowid`)
	if err != nil {
		return nil, wrap("list goals", err)
	}
	defer rows.Close()

	var out []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, wrap("list goals", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list goals", err)
	}
	return out, nil
}

// DeleteGoal removes the goal; its contributions cascade.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return wrap("delete goal", err)
	}
	return notFoundIfNoRows(res, "goal", id, "delete goal")
}

// AddContribution appends the contribution and raises the goal's current
// amount inside one SQL transaction.
func (s *Store) AddContribution(ctx context.Context, c *models.GoalContribution) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Goal{}, wrap("add contribution", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	g, err := s.getGoal(ctx, dbTx, c.GoalID)
	if err != nil {
		return models.Goal{}, err
	}

	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.Now()
	}
	if _, err := dbTx.ExecContext(ctx, `INSERT INTO goal_contributions (id, goal_id, amount, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.GoalID, c.Amount.String(), formatTime(c.CreatedAt)); err != nil {
		return models.Goal{}, wrap("add contribution", err)
	}

	g.CurrentAmount = g.CurrentAmount.Add(c.Amount)
	if _, err := dbTx.ExecContext(ctx, `UPDATE goals SET current_amount = ? WHERE id = ?`,
		g.CurrentAmount.String(), g.ID); err != nil {
		return models.Goal{}, wrap("add contribution", err)
	}

	if err := dbTx.Commit(); err != nil {
		return models.Goal{}, wrap("add contribution", err)
	}
	return g, nil
}

// ListContributions returns a goal's contributions, oldest first.
func (s *Store) ListContributions(ctx context.Context, goalID string) ([]models.GoalContribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, goal_id, amount, created_at FROM goal_contributions
		WHERE goal_id = ? ORDER BY created_at, rowid`, goalID)
	if err != nil {
		return nil, wrap("list contributions", err)
	}
	defer rows.Close()

	var out []models.GoalContribution
	for rows.Next() {
		var (
			c               models.GoalContribution
			amount, created string
		)
		if err := rows.Scan(&c.ID, &c.GoalID, &amount, &created); err != nil {
			return nil, wrap("list contributions", err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, wrap("list contributions", err)
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, wrap("list contributions", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list contributions", err)
	}
	return out, nil
}

// --- reminders ---

const reminderColumns = `id, title, note, due_date, dismissed, snoozed_until`

func scanReminder(row scanner) (models.Reminder, error) {
	var (
		r         models.Reminder
		due       string
		dismissed int
		snoozed   sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Note, &due, &dismissed, &snoozed); err != nil {
		return r, err
	}
	var err error
	if r.DueDate, err = parseTime(due); err != nil {
		return r, err
	}
	if r.SnoozedUntil, err = parseNullTime(snoozed); err != nil {
		return r, err
	}
	r.Dismissed = dismissed == 1
	return r, nil
}

// SaveReminder inserts when ID is empty, otherwise replaces the reminder with that ID.
func (s *Store) SaveReminder(ctx context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
		_, err := s.db.ExecContext(ctx, `INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.Note, formatTime(r.DueDate), boolInt(r.Dismissed), nullTime(r.SnoozedUntil))
		if err != nil {
			return wrap("save reminder", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE reminders SET title = ?, note = ?, due_date = ?, dismissed = ?, snoozed_until = ? WHERE id = ?`,
		r.Title, r.Note, formatTime(r.DueDate), boolInt(r.Dismissed), nullTime(r.SnoozedUntil), r.ID)
	if err != nil {
		return wrap("save reminder", err)
	}
	return notFoundIfNoRows(res, "reminder", r.ID, "save reminder")
}

func (s *Store) GetReminder(ctx context.Context, id string) (models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := scanReminder(s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, ledgererror.NewNotFound("reminder", id)
	}
	if err != nil {
		return models.Reminder{}, wrap("get reminder", err)
	}
	return r, nil
}

// ListReminders returns reminders ordered by due date.
func (s *Store) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders ORDER BY due_date, rowid`)
	if err != nil {
		return nil, wrap("list reminders", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, wrap("list reminders", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reminders", err)
	}
	return out, nil
}

// MergeCategory refiles every record under source to target in one
// transaction. A source budget is dropped when the target already has one for
// its period.
func (s *Store) MergeCategory(ctx context.Context, source, target string) (models.CategoryMergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "merge category"
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CategoryMergeResult{}, wrap(op, err)
	}
	defer func() { _ = dbTx.Rollback() }()

	exec := func(query string, args ...any) (int, error) {
		res, err := dbTx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, wrap(op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, wrap(op, err)
		}
		return int(n), nil
	}

	res := models.CategoryMergeResult{Source: source, Target: target}
	steps := []struct {
		count *int
		query string
	}{
		{&res.Transactions, `UPDATE transactions SET category = ? WHERE category = ?`},
		{&res.Mappings, `UPDATE merchant_mappings SET category = ? WHERE category = ?`},
		{&res.RecurringTags, `UPDATE recurring_tags SET category = ? WHERE category = ?`},
		{&res.Anomalies, `UPDATE anomalies SET category = ? WHERE category = ?`},
	}
	for _, step := range steps {
		if *step.count, err = exec(step.query, target, source); err != nil {
			return models.CategoryMergeResult{}, err
		}
	}

	if res.BudgetsDropped, err = exec(`DELETE FROM budgets WHERE category = ?
		AND period_type IN (SELECT period_type FROM budgets WHERE category = ?)`, source, target); err != nil {
		return models.CategoryMergeResult{}, err
	}
	if res.Budgets, err = exec(`UPDATE budgets SET category = ? WHERE category = ?`, target, source); err != nil {
		return models.CategoryMergeResult{}, err
	}

	if err := dbTx.Commit(); err != nil {
		return models.CategoryMergeResult{}, wrap(op, err)
	}
	return res, nil
}
