package recurrence

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

var today = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newTestDetector(t *testing.T, txs ...models.Transaction) (*Detector, *store.MockStore) {
	t.Helper()
	st := store.NewMockStore()
	for i := range txs {
		if txs[i].Kind == "" {
			txs[i].Kind = models.KindExpense
		}
		require.NoError(t, st.AddTransaction(context.Background(), &txs[i]))
	}
	d := NewDetector(st, models.DefaultInsightPolicy(), logging.NewMockLogger())
	d.Now = func() time.Time { return today }
	return d, st
}

func expense(merchant string, date time.Time) models.Transaction {
	return models.Transaction{Merchant: merchant, Date: date, Amount: decimal.NewFromFloat(15.99)}
}

func TestDetector_Check(t *testing.T) {
	monthly := make([]models.Transaction, 0, 13)
	for i := 12; i >= 0; i-- {
		monthly = append(monthly, expense("Gym Membership", day(-30*i)))
	}

	tests := []struct {
		name        string
		txs         []models.Transaction
		merchant    string
		date        time.Time
		recurring   bool
		confidence  float64
		occurrences int
		next        *time.Time
	}{
		{
			name:        "three evenly spaced charges are too few",
			txs:         []models.Transaction{expense("Netflix", day(-60)), expense("Netflix", day(-30)), expense("Netflix", day(0))},
			merchant:    "Netflix",
			confidence:  2.0 / 12.0,
			occurrences: 3,
			next:        ptr(day(30)),
		},
		{
			name:        "a year of monthly charges is recurring",
			txs:         monthly,
			merchant:    "GYM MEMBERSHIP #88",
			recurring:   true,
			confidence:  1,
			occurrences: 13,
			next:        ptr(day(30)),
		},
		{
			name:        "irregular spacing lowers confidence",
			txs:         []models.Transaction{expense("Netflix", day(-60)), expense("Netflix", day(-50)), expense("Netflix", day(0))},
			merchant:    "netflix",
			confidence:  (2.0 / 12.0) * (1 - 20.0/31.0),
			occurrences: 3,
			next:        ptr(day(30)),
		},
		{
			name:        "similar spellings are grouped",
			txs:         []models.Transaction{expense("NETFLIX", day(-30)), expense("Netflix.com", day(0))},
			merchant:    "netflix",
			confidence:  1.0 / 12.0,
			occurrences: 2,
			next:        ptr(day(30)),
		},
		{
			name:        "single match is not recurring",
			txs:         []models.Transaction{expense("Netflix", day(0)), expense("Spotify", day(-3))},
			merchant:    "Netflix",
			occurrences: 1,
		},
		{
			name:        "later transactions are ignored",
			txs:         []models.Transaction{expense("Netflix", day(-60)), expense("Netflix", day(-30)), expense("Netflix", day(0))},
			merchant:    "Netflix",
			date:        day(-30),
			confidence:  1.0 / 12.0,
			occurrences: 2,
			next:        ptr(day(0)),
		},
		{
			name:     "empty merchant",
			txs:      []models.Transaction{expense("Netflix", day(0))},
			merchant: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector(t, tt.txs...)

			got, err := d.Check(context.Background(), tt.merchant, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.recurring, got.IsRecurring)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.occurrences, got.Occurrences)
			if tt.next == nil {
				assert.Nil(t, got.NextExpected)
			} else {
				require.NotNil(t, got.NextExpected)
				assert.True(t, tt.next.Equal(*got.NextExpected), "next expected %s, got %s", tt.next, got.NextExpected)
			}
		})
	}
}

func TestDetector_CheckStoreError(t *testing.T) {
	d, st := newTestDetector(t)
	st.ListTransactionsError = errors.New("offline")

	_, err := d.Check(context.Background(), "Netflix", time.Time{})
	assert.EqualError(t, err, "offline")
}

func TestDetector_RecentlyRecurring(t *testing.T) {
	tests := []struct {
		name       string
		txs        []models.Transaction
		normalized string
		want       bool
	}{
		{
			name:       "two exact matches inside the window",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("SPOTIFY #2", day(-40))},
			normalized: "spotify",
			want:       true,
		},
		{
			name:       "match outside the window is not counted",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("Spotify", day(-91))},
			normalized: "spotify",
			want:       false,
		},
		{
			name:       "window start is inclusive",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("Spotify", day(-90))},
			normalized: "spotify",
			want:       true,
		},
		{
			name:       "future-dated charges are not counted",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("Spotify", day(5))},
			normalized: "spotify",
			want:       false,
		},
		{
			name:       "window end is today inclusive",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("Spotify", day(0))},
			normalized: "spotify",
			want:       true,
		},
		{
			name:       "similar but not identical merchants do not count",
			txs:        []models.Transaction{expense("Spotify", day(-10)), expense("Spotify AB", day(-20))},
			normalized: "spotify",
			want:       false,
		},
		{
			name:       "empty key",
			txs:        []models.Transaction{expense("", day(-1)), expense("", day(-2))},
			normalized: "",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector(t, tt.txs...)

			got, err := d.RecentlyRecurring(context.Background(), tt.normalized)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_ConfirmAndUpcoming(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDetector(t)

	tag, err := d.Confirm(ctx, models.RecurringConfirmation{
		Merchant:      "Netflix.com #1",
		Category:      "Entertainment",
		AverageAmount: decimal.RequireFromString("15.99"),
		IntervalDays:  5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "netflixcom", tag.Merchant)
	assert.True(t, tag.Confirmed)
	require.NotNil(t, tag.NextExpected)
	assert.True(t, day(5).Equal(*tag.NextExpected))

	_, err = d.Confirm(ctx, models.RecurringConfirmation{Merchant: "Rent", IntervalDays: 30})
	require.NoError(t, err)
	noInterval, err := d.Confirm(ctx, models.RecurringConfirmation{Merchant: "Gym"})
	require.NoError(t, err)
	assert.Nil(t, noInterval.NextExpected)

	upcoming, err := d.Upcoming(ctx, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "netflixcom", upcoming[0].Merchant)

	upcoming, err = d.Upcoming(ctx, 30)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "rent", upcoming[1].Merchant)

	again, err := d.Confirm(ctx, models.RecurringConfirmation{Merchant: "netflixcom", Category: "Streaming", IntervalDays: 30})
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)

	all, err := d.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := d.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Streaming", got.Category)

	require.NoError(t, d.Delete(ctx, tag.ID))
	_, err = d.Get(ctx, tag.ID)
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
}

func TestDetector_ConfirmValidation(t *testing.T) {
	d, _ := newTestDetector(t)

	_, err := d.Confirm(context.Background(), models.RecurringConfirmation{Merchant: "  "})
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)

	_, err = d.Confirm(context.Background(), models.RecurringConfirmation{Merchant: "Gym", IntervalDays: -1})
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)

	_, err = d.Upcoming(context.Background(), -1)
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
}

func ptr(t time.Time) *time.Time {
	return &t
}
