package reminder

import (
	"context"
	"testing"
	"time"

	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newTestService(t *testing.T) (*Service, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	s := NewService(store.NewMemoryStore(nil), models.DefaultInsightPolicy(), logger)
	s.Now = func() time.Time { return now }
	return s, logger
}

func titles(rs []models.Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestService_Due(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	for _, r := range []struct {
		title  string
		offset int
	}{
		{"insurance", 10},
		{"overdue tax", -2},
		{"rent", 3},
		{"phone bill", 1},
		{"gym", 4},
	} {
		_, err := s.Create(ctx, r.title, "", day(r.offset).Add(15*time.Hour))
		require.NoError(t, err)
	}

	due, err := s.Due(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue tax", "phone bill", "rent"}, titles(due))

	due, err = s.Due(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue tax"}, titles(due))

	due, err = s.Due(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, due, 5)
}

func TestService_DismissAndSnooze(t *testing.T) {
	ctx := context.Background()
	s, logger := newTestService(t)

	bill, err := s.Create(ctx, "Electric bill", " pay online ", day(1))
	require.NoError(t, err)
	assert.Equal(t, "pay online", bill.Note)
	tax, err := s.Create(ctx, "Tax", "", day(2))
	require.NoError(t, err)

	snoozed, err := s.Snooze(ctx, bill.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, snoozed.SnoozedUntil)
	assert.True(t, day(1).Equal(*snoozed.SnoozedUntil))

	due, err := s.Due(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tax"}, titles(due))

	s.Now = func() time.Time { return day(1) }
	due, err = s.Due(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electric bill", "Tax"}, titles(due))

	_, err = s.Dismiss(ctx, tax.ID)
	require.NoError(t, err)

	visible, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electric bill"}, titles(visible))

	all, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electric bill", "Tax"}, titles(all))

	assert.True(t, logger.HasEntry("INFO", "Dismissed reminder"))
	assert.True(t, logger.HasEntry("INFO", "Snoozed reminder"))
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.Create(ctx, "  ", "", day(1))
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
	_, err = s.Create(ctx, "title", "", time.Time{})
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)

	_, err = s.Dismiss(ctx, "missing")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
	_, err = s.Snooze(ctx, "missing", 2)
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
}
