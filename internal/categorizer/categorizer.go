// Package categorizer assigns categories to transactions. Strategies are tried
// in order and the first that finds a category wins:
//  1. Persisted user corrections, exact then fuzzy (MappingStrategy)
//  2. Ordered keyword heuristics over merchant and notes (KeywordStrategy)
//
// Every classification also carries the recent-recurrence and anomaly signals.
package categorizer

import (
	"context"
	"errors"
	"strings"

	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/textutils"
)

// Categorizer classifies transactions and records user confirmations.
type Categorizer struct {
	store      CategoryStore
	mapping    *MappingStrategy
	strategies []CategorizationStrategy
	recurrence RecurrenceSignal
	anomaly    AnomalySignal
	logger     logging.Logger
}

// NewCategorizer wires the mapping and keyword strategies. The recurrence and
// anomaly signals may be nil, in which case they are reported as false.
func NewCategorizer(
	store CategoryStore,
	rules models.KeywordRules,
	policy models.InsightPolicy,
	recurrence RecurrenceSignal,
	anomaly AnomalySignal,
	logger logging.Logger,
) *Categorizer {
	logger = logging.OrDefault(logger)
	mapping := NewMappingStrategy(store, policy, logger)

	return &Categorizer{
		store:      store,
		mapping:    mapping,
		strategies: []CategorizationStrategy{mapping, NewKeywordStrategy(rules, logger)},
		recurrence: recurrence,
		anomaly:    anomaly,
		logger:     logger,
	}
}

// Strategies returns the strategy names in evaluation order.
func (c *Categorizer) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Classify runs the strategies in order and attaches the recurrence and
// anomaly signals to whatever result wins. A strategy that fails is logged
// and skipped.
func (c *Categorizer) Classify(ctx context.Context, req models.ClassificationRequest) (models.Classification, error) {
	if err := ctx.Err(); err != nil {
		return models.Classification{}, err
	}

	tx := Transaction{
		Merchant:   req.Merchant,
		Notes:      req.Notes,
		Normalized: textutils.NormalizeMerchant(req.Merchant),
	}

	var results StrategyResults
	for _, strategy := range c.strategies {
		result, err := strategy.Categorize(ctx, tx)
		if err != nil {
			result.Strategy = strategy.Name()
			result.Error = &ledgererror.ClassificationError{Merchant: req.Merchant, Strategy: strategy.Name(), Err: err}
			c.logger.WithError(result.Error).Warn("Categorization strategy failed, trying next")
		}
		results.Results = append(results.Results, result)
		if result.Found && result.Error == nil {
			break
		}
	}

	out := models.Classification{
		NormalizedMerchant: tx.Normalized,
		Explanation:        models.ExplanationNoPrediction,
		Strategy:           models.StrategyNone,
	}
	if best, ok := results.Best(); ok {
		out.Category = best.Category
		out.Confidence = clamp01(best.Confidence)
		out.Explanation = best.Explanation
		out.Strategy = best.Strategy
		if best.NormalizedMerchant != "" {
			out.NormalizedMerchant = best.NormalizedMerchant
		}
	}
	if !out.HasCategory() {
		if errs := results.Errors(); len(errs) > 0 {
			c.logger.WithError(errors.Join(errs...)).Warn("No category found after strategy failures",
				logging.Field{Key: logging.FieldMerchant, Value: req.Merchant},
				logging.Field{Key: logging.FieldCount, Value: len(errs)})
		}
	}

	if c.recurrence != nil && tx.Normalized != "" {
		recurring, err := c.recurrence.RecentlyRecurring(ctx, tx.Normalized)
		if err != nil {
			c.logger.WithError(err).Warn("Failed to compute recurrence signal",
				logging.Field{Key: logging.FieldNormalized, Value: tx.Normalized})
		}
		out.IsRecurring = recurring
	}
	if c.anomaly != nil {
		out.Anomaly = c.anomaly.IsAnomalous(req.Amount, out.Category)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: req.Merchant},
		logging.Field{Key: logging.FieldCategory, Value: out.Category},
		logging.Field{Key: logging.FieldConfidence, Value: out.Confidence},
		logging.Field{Key: logging.FieldStrategy, Value: results.Summary()},
	).Debug("Classified transaction")

	return out, nil
}

// ConfirmCategory records the user's category for a merchant:
//   - an exact mapping is updated in place (canonical too, when supplied);
//   - otherwise a mapping similar enough gets a new alias that shares its
//     canonical name but carries the new category;
//   - otherwise a new mapping is created, canonical defaulting to the key.
func (c *Categorizer) ConfirmCategory(ctx context.Context, req models.ConfirmRequest) (models.MerchantMapping, error) {
	key := textutils.NormalizeMerchant(req.Merchant)
	if key == "" {
		return models.MerchantMapping{}, ledgererror.NewValidation("merchant", req.Merchant, "must contain letters or digits")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return models.MerchantMapping{}, ledgererror.NewValidation("category", "", "must not be empty")
	}
	canonical := strings.TrimSpace(req.Canonical)

	existing, err := c.store.FindMapping(ctx, key)
	if err != nil {
		return models.MerchantMapping{}, err
	}

	var mapping models.MerchantMapping
	switch {
	case existing != nil:
		mapping = *existing
		mapping.Category = category
		if canonical != "" {
			mapping.Canonical = canonical
		}
	default:
		best, score, err := c.mapping.bestMatch(ctx, key)
		if err != nil {
			return models.MerchantMapping{}, err
		}
		mapping = models.MerchantMapping{Merchant: key, Category: category, Canonical: canonical}
		if best != nil && score >= c.mapping.policy.MappingSimilarity {
			mapping.Canonical = best.DisplayName()
		} else if mapping.Canonical == "" {
			mapping.Canonical = key
		}
	}

	if err := c.store.SaveMapping(ctx, &mapping); err != nil {
		return models.MerchantMapping{}, err
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldNormalized, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "canonical", Value: mapping.Canonical},
	).Info("Confirmed merchant category")
	return mapping, nil
}

// Mappings lists every persisted mapping.
func (c *Categorizer) Mappings(ctx context.Context) ([]models.MerchantMapping, error) {
	return c.store.ListMappings(ctx)
}

// MergeCategory refiles every transaction, mapping, recurring tag, anomaly and
// budget under req.Source to req.Target. Names are trimmed and compared
// exactly; both must be non-empty and distinct.
func (c *Categorizer) MergeCategory(ctx context.Context, req models.CategoryMerge) (models.CategoryMergeResult, error) {
	source := strings.TrimSpace(req.Source)
	target := strings.TrimSpace(req.Target)
	if source == "" {
		return models.CategoryMergeResult{}, ledgererror.NewValidation("source", req.Source, "must not be empty")
	}
	if target == "" {
		return models.CategoryMergeResult{}, ledgererror.NewValidation("target", req.Target, "must not be empty")
	}
	if source == target {
		return models.CategoryMergeResult{}, ledgererror.NewValidation("target", target, "must differ from source")
	}

	res, err := c.store.MergeCategory(ctx, source, target)
	if err != nil {
		return models.CategoryMergeResult{}, err
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: target},
		logging.Field{Key: "source_category", Value: source},
		logging.Field{Key: logging.FieldCount, Value: res.Total()},
	).Info("Merged category")
	return res, nil
}
