package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MerchantMapping is a persisted user correction keyed by normalized merchant.
// Category is empty when the mapping only records a canonical name.
type MerchantMapping struct {
	ID        string    `json:"id" yaml:"id"`
	Merchant  string    `json:"merchant" yaml:"merchant"`
	Canonical string    `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// DisplayName returns the canonical name, falling back to the merchant key.
func (m MerchantMapping) DisplayName() string {
	if m.Canonical != "" {
		return m.Canonical
	}
	return m.Merchant
}

// ClassificationRequest is a transaction to classify.
type ClassificationRequest struct {
	Merchant string              `json:"merchant"`
	Notes    string              `json:"notes,omitempty"`
	Amount   decimal.NullDecimal `json:"amount"`
	Date     *time.Time          `json:"date,omitempty"`
}

// Classification is the outcome of classifying one transaction.
type Classification struct {
	Category           string  `json:"category,omitempty"`
	Confidence         float64 `json:"confidence"`
	NormalizedMerchant string  `json:"normalized_merchant"`
	IsRecurring        bool    `json:"is_recurring"`
	Anomaly            bool    `json:"anomaly"`
	Explanation        string  `json:"explanation"`
	Strategy           string  `json:"strategy"`
}

// HasCategory reports whether a category was assigned.
func (c Classification) HasCategory() bool {
	return c.Category != ""
}

// ConfirmRequest records a user's category choice for a merchant.
type ConfirmRequest struct {
	Merchant  string `json:"merchant"`
	Category  string `json:"category"`
	Canonical string `json:"canonical,omitempty"`
}

// KeywordRule maps any of its keywords to a category with fixed confidence.
type KeywordRule struct {
	Category    string   `json:"category" yaml:"category"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// KeywordRules is the structure of the rules YAML file.
type KeywordRules struct {
	MerchantRules []KeywordRule `yaml:"merchant_rules"`
	NotesRules    []KeywordRule `yaml:"notes_rules"`
	Fallback      *KeywordRule  `yaml:"fallback,omitempty"`
}
