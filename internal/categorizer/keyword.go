package categorizer

import (
	"context"
	"strings"

	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/textutils"
)

// DefaultKeywordRules returns the built-in heuristic rules. Merchant rules are
// checked in order and the first match wins.
func DefaultKeywordRules() models.KeywordRules {
	return models.KeywordRules{
		MerchantRules: []models.KeywordRule{
			{Category: models.CategoryTransport, Keywords: []string{"uber", "lyft", "taxi"}, Confidence: 0.95,
				Explanation: "Matched transport keywords in merchant"},
			{Category: models.CategoryFoodAndDrink, Keywords: []string{"starbucks", "coffee"}, Confidence: 0.9,
				Explanation: "Matched coffee/restaurant keywords"},
			{Category: models.CategoryShopping, Keywords: []string{"amazon", "shop", "store"}, Confidence: 0.85,
				Explanation: "Matched shopping keywords"},
			{Category: models.CategoryEntertainment, Keywords: []string{"netflix", "spotify", "movie"}, Confidence: 0.9,
				Explanation: "Matched streaming/entertainment keywords"},
			{Category: models.CategoryRent, Keywords: []string{"rent"}, Confidence: 0.95,
				Explanation: "Matched rent keyword"},
			{Category: models.CategoryUtilities, Keywords: []string{"electric", "water"}, Confidence: 0.9,
				Explanation: "Matched utilities keywords"},
			{Category: models.CategorySalary, Keywords: []string{"salary", "paycheck"}, Confidence: 0.95,
				Explanation: "Matched salary/paycheck keyword"},
		},
		NotesRules: []models.KeywordRule{
			{Category: models.CategoryGroceries, Keywords: []string{"grocery", "supermarket"}, Confidence: 0.75,
				Explanation: "Matched grocery in notes"},
		},
		Fallback: defaultFallbackRule(),
	}
}

func defaultFallbackRule() *models.KeywordRule {
	return &models.KeywordRule{
		Category:    models.CategoryShopping,
		Confidence:  0.4,
		Explanation: models.ExplanationGeneric,
	}
}

// KeywordStrategy is the heuristic fallback classifier. It matches lowercased
// merchant text against ordered keyword rules, then the notes, then falls back
// to a low-confidence generic category when the merchant has any token.
type KeywordStrategy struct {
	rules  models.KeywordRules
	logger logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy. Keywords are matched in
// lowercase; a nil fallback uses the built-in generic rule.
func NewKeywordStrategy(rules models.KeywordRules, logger logging.Logger) *KeywordStrategy {
	rules.MerchantRules = lowerRules(rules.MerchantRules)
	rules.NotesRules = lowerRules(rules.NotesRules)
	if rules.Fallback == nil {
		rules.Fallback = defaultFallbackRule()
	}
	return &KeywordStrategy{
		rules:  rules,
		logger: logging.OrDefault(logger),
	}
}

func lowerRules(in []models.KeywordRule) []models.KeywordRule {
	out := make([]models.KeywordRule, len(in))
	for i, rule := range in {
		out[i] = rule
		out[i].Keywords = make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			out[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return out
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return models.StrategyKeyword
}

// Categorize never fails; an empty merchant with unmatched notes yields a
// result with Found false and the "no prediction" explanation.
func (s *KeywordStrategy) Categorize(_ context.Context, tx Transaction) (StrategyResult, error) {
	merchant := strings.ToLower(tx.Merchant)
	notes := strings.ToLower(tx.Notes)

	if rule, ok := firstMatch(s.rules.MerchantRules, merchant); ok {
		return s.found(tx, rule), nil
	}
	if rule, ok := firstMatch(s.rules.NotesRules, notes); ok {
		return s.found(tx, rule), nil
	}
	if len(strings.Fields(merchant)) > 0 {
		return s.found(tx, *s.rules.Fallback), nil
	}

	return StrategyResult{
		Strategy:           s.Name(),
		Explanation:        models.ExplanationNoPrediction,
		NormalizedMerchant: tx.Normalized,
	}, nil
}

func firstMatch(rules []models.KeywordRule, text string) (models.KeywordRule, bool) {
	if text == "" {
		return models.KeywordRule{}, false
	}
	for _, rule := range rules {
		if textutils.ContainsAny(text, rule.Keywords) {
			return rule, true
		}
	}
	return models.KeywordRule{}, false
}

func (s *KeywordStrategy) found(tx Transaction, rule models.KeywordRule) StrategyResult {
	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldMerchant, Value: tx.Merchant},
		logging.Field{Key: logging.FieldCategory, Value: rule.Category},
	).Debug("Transaction categorized using keyword matching")

	explanation := rule.Explanation
	if explanation == "" {
		explanation = "Matched " + rule.Category + " keywords"
	}
	return StrategyResult{
		Strategy:           s.Name(),
		Category:           rule.Category,
		Found:              true,
		Confidence:         clamp01(rule.Confidence),
		Explanation:        explanation,
		NormalizedMerchant: tx.Normalized,
	}
}
