package common

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/store"

	"github.com/shopspring/decimal"
)

// Classifier assigns a category to a transaction without one.
type Classifier interface {
	Classify(ctx context.Context, req models.ClassificationRequest) (models.Classification, error)
}

// ImportStats counts what happened to each imported row.
type ImportStats struct {
	Total         int `json:"total"`
	Imported      int `json:"imported"`
	Skipped       int `json:"skipped"`
	Classified    int `json:"classified"`
	Uncategorized int `json:"uncategorized"`
	Failed        int `json:"failed"`
}

// Importer loads transaction CSV files into the store.
type Importer struct {
	store      store.TransactionStore
	classifier Classifier
	logger     logging.Logger
}

// NewImporter creates an Importer. A nil classifier leaves rows without a
// category uncategorized.
func NewImporter(st store.TransactionStore, classifier Classifier, logger logging.Logger) *Importer {
	return &Importer{store: st, classifier: classifier, logger: logging.OrDefault(logger)}
}

// ImportFile reads path and stores every valid row. Blank rows are skipped;
// the first invalid row aborts the import with an ImportError, leaving the
// rows before it stored.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportStats, error) {
	rows, err := ReadCSVFile[TransactionRow](path, im.logger)
	if err != nil {
		return ImportStats{}, err
	}

	var stats ImportStats
	for i, row := range rows {
		stats.Total++
		if row.IsBlank() {
			stats.Skipped++
			continue
		}

		// header is line 1
		tx, err := row.ToTransaction(path, i+2)
		if err != nil {
			return stats, err
		}
		if tx.Category == "" {
			im.categorize(ctx, &tx, &stats)
		}
		if err := im.store.AddTransaction(ctx, &tx); err != nil {
			return stats, fmt.Errorf("storing row %d: %w", i+2, err)
		}
		stats.Imported++
	}

	im.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: stats.Imported},
		logging.Field{Key: "classified", Value: stats.Classified},
		logging.Field{Key: "failed", Value: stats.Failed},
	).Info("Imported transactions")
	return stats, nil
}

// Add validates and stores a single transaction, classifying it when it has no
// category. Amounts must be positive; the kind carries the direction.
func (im *Importer) Add(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if !tx.Kind.Valid() {
		return models.Transaction{}, ledgererror.NewValidation("kind", string(tx.Kind),
			fmt.Sprintf("must be %q or %q", models.KindExpense, models.KindIncome))
	}
	if !tx.Amount.IsPositive() {
		return models.Transaction{}, ledgererror.NewValidation("amount", tx.Amount.String(), "must be positive")
	}
	if tx.Date.IsZero() {
		return models.Transaction{}, ledgererror.NewValidation("date", "", "is required")
	}
	tx.Merchant = strings.TrimSpace(tx.Merchant)
	tx.Category = strings.TrimSpace(tx.Category)

	if tx.Category == "" {
		var stats ImportStats
		im.categorize(ctx, &tx, &stats)
	}
	if err := im.store.AddTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}

	im.logger.Debug("Added transaction",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldCategory, Value: tx.Category})
	return tx, nil
}

func (im *Importer) categorize(ctx context.Context, tx *models.Transaction, stats *ImportStats) {
	if im.classifier == nil {
		stats.Uncategorized++
		return
	}

	date := tx.Date
	result, err := im.classifier.Classify(ctx, models.ClassificationRequest{
		Merchant: tx.Merchant,
		Notes:    tx.Notes,
		Amount:   decimal.NewNullDecimal(tx.Amount),
		Date:     &date,
	})
	switch {
	case err != nil:
		im.logger.WithError(err).Warn("Categorization failed",
			logging.Field{Key: logging.FieldMerchant, Value: tx.Merchant})
		stats.Failed++
	case !result.HasCategory():
		stats.Uncategorized++
	default:
		tx.Category = result.Category
		stats.Classified++
	}
}
