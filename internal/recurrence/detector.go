// Package recurrence detects repeating merchants from interval statistics and
// manages the recurring tags a user confirms.
package recurrence

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"
	"fjacquet/fin-insights/internal/textutils"
)

// Store is the subset of the record store the detector reads and writes.
type Store interface {
	store.TransactionStore
	store.RecurringStore
}

// Detector checks merchants for recurrence. The ad-hoc Check groups merchants
// by fuzzy similarity over the whole history, while RecentlyRecurring only
// counts exact normalized matches inside the recent window.
type Detector struct {
	store  Store
	policy models.InsightPolicy
	logger logging.Logger

	// Now returns the current time; tests pin it.
	Now func() time.Time
}

// NewDetector creates a Detector.
func NewDetector(st Store, policy models.InsightPolicy, logger logging.Logger) *Detector {
	return &Detector{
		store:  st,
		policy: policy,
		logger: logging.OrDefault(logger),
		Now:    time.Now,
	}
}

// Check reports whether merchant recurs in the transaction history up to and
// including date (all history when date is zero). Fewer than two matching
// transactions yield a zero-confidence, non-recurring result.
func (d *Detector) Check(ctx context.Context, merchant string, date time.Time) (models.RecurrenceCheck, error) {
	key := textutils.NormalizeMerchant(merchant)
	result := models.RecurrenceCheck{Merchant: key}

	txs, err := d.store.ListTransactions(ctx, models.TransactionFilter{Until: date})
	if err != nil {
		return result, err
	}

	var dates []time.Time
	for _, tx := range txs {
		if textutils.Similarity(key, textutils.NormalizeMerchant(tx.Merchant)) >= d.policy.RecurrenceSimilarity {
			dates = append(dates, tx.Date)
		}
	}
	result.Occurrences = len(dates)
	if len(dates) < 2 {
		return result, nil
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, float64(dateutils.DaysBetween(dates[i-1], dates[i])))
	}
	mean, stddev := meanStdDev(gaps)

	sampleWeight := float64(len(gaps)) / float64(d.policy.RecurrenceSampleTarget)
	result.Confidence = clamp01(sampleWeight * (1 - stddev/(mean+1)))
	result.IsRecurring = result.Confidence >= d.policy.RecurrenceConfidence
	result.MeanIntervalDays = mean
	result.StdDevDays = stddev
	next := dateutils.AddDays(dates[len(dates)-1], int(math.Round(mean)))
	result.NextExpected = &next

	d.logger.WithFields(
		logging.Field{Key: logging.FieldNormalized, Value: key},
		logging.Field{Key: logging.FieldCount, Value: len(dates)},
		logging.Field{Key: logging.FieldConfidence, Value: result.Confidence},
	).Debug("Checked merchant recurrence")

	return result, nil
}

// RecentlyRecurring reports whether at least the configured minimum of
// transactions with exactly this normalized merchant fall inside the recent
// window ending today. Future-dated transactions are ignored.
func (d *Detector) RecentlyRecurring(ctx context.Context, normalized string) (bool, error) {
	if normalized == "" {
		return false, nil
	}
	now := d.Now()
	txs, err := d.store.ListTransactions(ctx, models.TransactionFilter{
		Since: dateutils.AddDays(now, -d.policy.RecentRecurrenceDays),
		Until: now,
	})
	if err != nil {
		return false, err
	}

	count := 0
	for _, tx := range txs {
		if textutils.NormalizeMerchant(tx.Merchant) == normalized {
			count++
		}
	}
	return count >= d.policy.RecentRecurrenceMin, nil
}

// Confirm persists a recurring tag for the merchant. Confirming the same
// merchant again replaces the previous tag.
func (d *Detector) Confirm(ctx context.Context, req models.RecurringConfirmation) (models.RecurringTag, error) {
	key := textutils.NormalizeMerchant(req.Merchant)
	if key == "" {
		return models.RecurringTag{}, ledgererror.NewValidation("merchant", req.Merchant, "must contain letters or digits")
	}
	if req.IntervalDays < 0 {
		return models.RecurringTag{}, ledgererror.NewValidation("interval_days", "", "must not be negative")
	}

	tag := models.RecurringTag{
		Merchant:      key,
		Category:      strings.TrimSpace(req.Category),
		AverageAmount: req.AverageAmount,
		IntervalDays:  req.IntervalDays,
		Confirmed:     true,
	}
	if req.IntervalDays > 0 {
		next := dateutils.AddDays(d.Now(), req.IntervalDays)
		tag.NextExpected = &next
	}

	if err := d.store.SaveRecurringTag(ctx, &tag); err != nil {
		return models.RecurringTag{}, err
	}

	d.logger.WithFields(
		logging.Field{Key: logging.FieldNormalized, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: tag.Category},
		logging.Field{Key: "interval_days", Value: tag.IntervalDays},
	).Info("Confirmed recurring transaction")
	return tag, nil
}

// List returns every confirmed tag.
func (d *Detector) List(ctx context.Context) ([]models.RecurringTag, error) {
	return d.store.ListRecurringTags(ctx)
}

// Get returns a tag by id.
func (d *Detector) Get(ctx context.Context, id string) (models.RecurringTag, error) {
	return d.store.GetRecurringTag(ctx, id)
}

// Delete removes a tag by id.
func (d *Detector) Delete(ctx context.Context, id string) error {
	return d.store.DeleteRecurringTag(ctx, id)
}

// Upcoming returns the tags expected between today and today+days inclusive,
// soonest first.
func (d *Detector) Upcoming(ctx context.Context, days int) ([]models.RecurringTag, error) {
	if days < 0 {
		return nil, ledgererror.NewValidation("days", "", "must not be negative")
	}
	tags, err := d.store.ListRecurringTags(ctx)
	if err != nil {
		return nil, err
	}

	today := d.Now()
	var out []models.RecurringTag
	for _, tag := range tags {
		if tag.NextExpected == nil {
			continue
		}
		ahead := dateutils.DaysBetween(today, *tag.NextExpected)
		if ahead >= 0 && ahead <= days {
			out = append(out, tag)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextExpected.Before(*out[j].NextExpected) })
	return out, nil
}

func meanStdDev(values []float64) (mean, stddev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
