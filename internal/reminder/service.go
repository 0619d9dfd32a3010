// Package reminder manages dated reminders that can be dismissed or snoozed.
package reminder

import (
	"context"
	"strings"
	"time"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"
)

// Service creates reminders and reports which ones are due.
type Service struct {
	store  store.ReminderStore
	policy models.InsightPolicy
	logger logging.Logger

	Now func() time.Time
}

// NewService creates a reminder Service.
func NewService(st store.ReminderStore, policy models.InsightPolicy, logger logging.Logger) *Service {
	return &Service{
		store:  st,
		policy: policy,
		logger: logging.OrDefault(logger),
		Now:    time.Now,
	}
}

// Create stores a new reminder due on the given day.
func (s *Service) Create(ctx context.Context, title, note string, due time.Time) (models.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Reminder{}, ledgererror.NewValidation("title", "", "must not be empty")
	}
	if due.IsZero() {
		return models.Reminder{}, ledgererror.NewValidation("due_date", "", "is required")
	}

	r := models.Reminder{
		Title:   title,
		Note:    strings.TrimSpace(note),
		DueDate: dateutils.StartOfDay(due),
	}
	if err := s.store.SaveReminder(ctx, &r); err != nil {
		return models.Reminder{}, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldReminderID, Value: r.ID},
		logging.Field{Key: "due_date", Value: dateutils.ToISODate(r.DueDate)},
	).Info("Created reminder")
	return r, nil
}

// List returns reminders by due date, leaving out dismissed ones unless
// includeDismissed is set.
func (s *Service) List(ctx context.Context, includeDismissed bool) ([]models.Reminder, error) {
	all, err := s.store.ListReminders(ctx)
	if err != nil {
		return nil, err
	}
	if includeDismissed {
		return all, nil
	}

	out := make([]models.Reminder, 0, len(all))
	for _, r := range all {
		if !r.Dismissed {
			out = append(out, r)
		}
	}
	return out, nil
}

// Due returns the reminders due on or before today plus withinDays (the
// configured default when negative). Dismissed and snoozed reminders are
// skipped, overdue ones are kept.
func (s *Service) Due(ctx context.Context, withinDays int) ([]models.Reminder, error) {
	if withinDays < 0 {
		withinDays = s.policy.ReminderDueDays
	}
	all, err := s.store.ListReminders(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	horizon := dateutils.AddDays(now, withinDays)
	var out []models.Reminder
	for _, r := range all {
		if r.Dismissed || r.IsSnoozed(now) {
			continue
		}
		if dateutils.CompareDates(r.DueDate, horizon) <= 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

// Dismiss hides a reminder permanently.
func (s *Service) Dismiss(ctx context.Context, id string) (models.Reminder, error) {
	r, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return models.Reminder{}, err
	}
	r.Dismissed = true
	if err := s.store.SaveReminder(ctx, &r); err != nil {
		return models.Reminder{}, err
	}
	s.logger.Info("Dismissed reminder", logging.Field{Key: logging.FieldReminderID, Value: id})
	return r, nil
}

// Snooze hides a reminder until today plus days; days <= 0 uses the
// configured default.
func (s *Service) Snooze(ctx context.Context, id string, days int) (models.Reminder, error) {
	if days <= 0 {
		days = s.policy.ReminderSnoozeDays
	}
	r, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return models.Reminder{}, err
	}
	until := dateutils.AddDays(s.Now(), days)
	r.SnoozedUntil = &until
	if err := s.store.SaveReminder(ctx, &r); err != nil {
		return models.Reminder{}, err
	}
	s.logger.Info("Snoozed reminder",
		logging.Field{Key: logging.FieldReminderID, Value: id},
		logging.Field{Key: "snoozed_until", Value: dateutils.ToISODate(until)})
	return r, nil
}
