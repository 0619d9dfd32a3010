package categorizer

import (
	"context"
	"fmt"
	"math"

	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/textutils"
)

// MappingStrategy resolves categories from persisted user corrections: an
// exact normalized key first, then the most similar mapping.
type MappingStrategy struct {
	store  MappingStore
	policy models.InsightPolicy
	logger logging.Logger
}

// NewMappingStrategy creates a new MappingStrategy instance.
func NewMappingStrategy(store MappingStore, policy models.InsightPolicy, logger logging.Logger) *MappingStrategy {
	return &MappingStrategy{
		store:  store,
		policy: policy,
		logger: logging.OrDefault(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *MappingStrategy) Name() string {
	return models.StrategyMapping
}

// Categorize looks for an exact mapping, then for the best fuzzy match at or
// above the mapping similarity threshold. Mappings without a category never
// produce a result.
func (s *MappingStrategy) Categorize(ctx context.Context, tx Transaction) (StrategyResult, error) {
	result := StrategyResult{Strategy: s.Name(), NormalizedMerchant: tx.Normalized}
	if tx.Normalized == "" {
		return result, nil
	}

	exact, err := s.store.FindMapping(ctx, tx.Normalized)
	if err != nil {
		return result, fmt.Errorf("exact mapping lookup: %w", err)
	}
	if exact != nil && exact.Category != "" {
		s.logger.WithFields(
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldNormalized, Value: tx.Normalized},
			logging.Field{Key: logging.FieldCategory, Value: exact.Category},
		).Debug("Transaction categorized using exact mapping")

		result.Found = true
		result.Category = exact.Category
		result.Confidence = clamp01(s.policy.MappingExactConfidence)
		result.Explanation = models.ExplanationUserMapping
		result.NormalizedMerchant = exact.DisplayName()
		return result, nil
	}

	best, score, err := s.bestMatch(ctx, tx.Normalized)
	if err != nil {
		return result, err
	}
	if best == nil || score < s.policy.MappingSimilarity || best.Category == "" {
		return result, nil
	}

	rounded := round2(score)
	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldNormalized, Value: tx.Normalized},
		logging.Field{Key: logging.FieldCategory, Value: best.Category},
		logging.Field{Key: logging.FieldSimilarity, Value: rounded},
	).Debug("Transaction categorized using similar mapping")

	result.Found = true
	result.Category = best.Category
	result.Confidence = clamp01(round2(s.policy.MappingFuzzyWeight * score))
	result.Explanation = fmt.Sprintf("similar to mapped merchant %q (similarity %.2f)", best.DisplayName(), rounded)
	result.NormalizedMerchant = best.DisplayName()
	return result, nil
}

// bestMatch scans every mapping and returns the most similar one. A mapping
// scores the better of its key and its normalized canonical name; ties keep
// the mapping seen first.
func (s *MappingStrategy) bestMatch(ctx context.Context, normalized string) (*models.MerchantMapping, float64, error) {
	mappings, err := s.store.ListMappings(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing mappings: %w", err)
	}

	var (
		best      *models.MerchantMapping
		bestScore float64
	)
	for i := range mappings {
		score := math.Max(
			textutils.Similarity(normalized, mappings[i].Merchant),
			textutils.Similarity(normalized, textutils.NormalizeMerchant(mappings[i].Canonical)),
		)
		if best == nil || score > bestScore {
			best = &mappings[i]
			bestScore = score
		}
	}
	return best, bestScore, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
