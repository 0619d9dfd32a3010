// Package anomaly flags outlier transaction amounts and keeps the resulting
// anomaly records.
package anomaly

import (
	"context"
	"sort"
	"time"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"

	"github.com/shopspring/decimal"
)

// Store is the subset of the record store the scorer needs.
type Store interface {
	store.TransactionStore
	store.AnomalyStore
}

// Scorer applies a fixed amount threshold. The category is accepted so a
// per-category model can replace the threshold later; it is unused today.
type Scorer struct {
	store     Store
	policy    models.InsightPolicy
	threshold decimal.Decimal
	logger    logging.Logger

	Now func() time.Time
}

// NewScorer creates a Scorer.
func NewScorer(st Store, policy models.InsightPolicy, logger logging.Logger) *Scorer {
	return &Scorer{
		store:     st,
		policy:    policy,
		threshold: policy.Threshold(),
		logger:    logging.OrDefault(logger),
		Now:       time.Now,
	}
}

// Score returns 1 when amount is present and strictly above the threshold,
// 0 otherwise.
func (s *Scorer) Score(amount decimal.NullDecimal, _ string) float64 {
	if amount.Valid && amount.Decimal.GreaterThan(s.threshold) {
		return 1
	}
	return 0
}

// IsAnomalous reports whether Score flags the amount.
func (s *Scorer) IsAnomalous(amount decimal.NullDecimal, category string) bool {
	return s.Score(amount, category) > 0
}

// Scan scores every expense dated within the last days (the configured
// default when days <= 0) and creates one record per flagged transaction.
// Transactions that already have a record are skipped, so scanning twice
// creates nothing the second time.
func (s *Scorer) Scan(ctx context.Context, days int) (models.ScanResult, error) {
	if days <= 0 {
		days = s.policy.AnomalyScanDays
	}
	since := dateutils.AddDays(s.Now(), -days)

	txs, err := s.store.ListTransactions(ctx, models.TransactionFilter{Kind: models.KindExpense, Since: since})
	if err != nil {
		return models.ScanResult{}, err
	}

	var result models.ScanResult
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		score := s.Score(decimal.NewNullDecimal(tx.Amount), tx.Category)
		if score == 0 {
			continue
		}
		existing, err := s.store.FindAnomalyByTransaction(ctx, tx.ID)
		if err != nil {
			return result, err
		}
		if existing != nil {
			continue
		}

		rec := models.AnomalyRecord{
			TransactionID: tx.ID,
			Amount:        tx.Amount,
			Category:      tx.Category,
			Score:         score,
			Message:       models.AnomalyScanMessage,
		}
		if err := s.store.CreateAnomaly(ctx, &rec); err != nil {
			return result, err
		}
		result.Created++
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldWindowDays, Value: days},
		logging.Field{Key: logging.FieldCount, Value: result.Created},
	).Info("Anomaly scan completed")
	return result, nil
}

// List returns records newest first. Dismissed and currently snoozed records
// are left out unless includeHidden is set.
func (s *Scorer) List(ctx context.Context, includeHidden bool) ([]models.AnomalyRecord, error) {
	records, err := s.store.ListAnomalies(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	out := make([]models.AnomalyRecord, 0, len(records))
	for _, rec := range records {
		if !includeHidden && (rec.Dismissed || rec.IsSnoozed(now)) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Dismiss hides a record permanently.
func (s *Scorer) Dismiss(ctx context.Context, id string) (models.AnomalyRecord, error) {
	rec, err := s.store.GetAnomaly(ctx, id)
	if err != nil {
		return models.AnomalyRecord{}, err
	}
	rec.Dismissed = true
	if err := s.store.UpdateAnomaly(ctx, rec); err != nil {
		return models.AnomalyRecord{}, err
	}

	s.logger.Info("Dismissed anomaly", logging.Field{Key: logging.FieldAnomalyID, Value: id})
	return rec, nil
}

// Snooze hides a record until today plus days; days <= 0 uses the configured
// default.
func (s *Scorer) Snooze(ctx context.Context, id string, days int) (models.AnomalyRecord, error) {
	if days <= 0 {
		days = s.policy.AnomalySnoozeDays
	}
	rec, err := s.store.GetAnomaly(ctx, id)
	if err != nil {
		return models.AnomalyRecord{}, err
	}
	until := dateutils.AddDays(s.Now(), days)
	rec.SnoozedUntil = &until
	if err := s.store.UpdateAnomaly(ctx, rec); err != nil {
		return models.AnomalyRecord{}, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldAnomalyID, Value: id},
		logging.Field{Key: "snoozed_until", Value: dateutils.ToISODate(until)},
	).Info("Snoozed anomaly")
	return rec, nil
}
