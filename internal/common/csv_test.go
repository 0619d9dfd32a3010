package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadCSVFile(t *testing.T) {
	path := writeCSV(t, `date,amount,type,merchant,notes,category
2025-01-03,-12.50,,Starbucks,,
,,,,,
05.01.2025,3000,income,ACME Paycheck,January,Salary`)

	rows, err := ReadCSVFile[TransactionRow](path, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Starbucks", rows[0].Merchant)
	assert.True(t, rows[1].IsBlank())
	assert.Equal(t, "Salary", rows[2].Category)
}

func TestReadCSVFile_Errors(t *testing.T) {
	_, err := ReadCSVFile[TransactionRow](filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.ErrorContains(t, err, "error opening CSV file")

	rows, err := ReadCSVFile[TransactionRow](writeCSV(t, ""), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTransactionRow_ToTransaction(t *testing.T) {
	tests := []struct {
		name     string
		row      TransactionRow
		kind     models.TransactionKind
		amount   string
		date     time.Time
		errField string
	}{
		{
			name:   "negative amount without type is an expense",
			row:    TransactionRow{Date: "2025-01-03", Amount: "-12.50", Merchant: " Starbucks "},
			kind:   models.KindExpense,
			amount: "12.5",
			date:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "positive amount without type is income",
			row:    TransactionRow{Date: "03.01.2025", Amount: "100"},
			kind:   models.KindIncome,
			amount: "100",
			date:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "explicit type wins over sign",
			row:    TransactionRow{Date: "2025-01-03", Amount: "45", Kind: "Expense"},
			kind:   models.KindExpense,
			amount: "45",
			date:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{name: "bad date", row: TransactionRow{Date: "someday", Amount: "1"}, errField: "date"},
		{
			name:   "swiss grouping",
			row:    TransactionRow{Date: "2025-01-03", Amount: "-1'250.40"},
			kind:   models.KindExpense,
			amount: "1250.4",
			date:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{name: "bad amount", row: TransactionRow{Date: "2025-01-03", Amount: "twelve"}, errField: "amount"},
		{name: "missing amount", row: TransactionRow{Date: "2025-01-03", Merchant: "x"}, errField: "amount"},
		{name: "bad type", row: TransactionRow{Date: "2025-01-03", Amount: "1", Kind: "transfer"}, errField: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.row.ToTransaction("in.csv", 7)
			if tt.errField != "" {
				var importErr *ledgererror.ImportError
				require.True(t, errors.As(err, &importErr))
				assert.Equal(t, tt.errField, importErr.Field)
				assert.Equal(t, 7, importErr.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tx.Kind)
			assert.Equal(t, tt.amount, tx.Amount.String())
			assert.True(t, tt.date.Equal(tx.Date), "date %s", tx.Date)
		})
	}
}

type stubClassifier struct {
	categories map[string]string
	err        error
}

func (s stubClassifier) Classify(_ context.Context, req models.ClassificationRequest) (models.Classification, error) {
	if s.err != nil {
		return models.Classification{}, s.err
	}
	return models.Classification{Category: s.categories[req.Merchant]}, nil
}

func TestImporter_ImportFile(t *testing.T) {
	ctx := context.Background()
	path := writeCSV(t, `date,amount,type,merchant,notes,category
2025-01-03,-12.50,,Starbucks,,
,,,,,
2025-01-05,3000,income,ACME Paycheck,January,Salary
2025-01-06,-80,,Corner Shop,,
2025-01-07,-20,,Mystery,,`)

	st := store.NewMemoryStore(nil)
	logger := logging.NewMockLogger()
	importer := NewImporter(st, stubClassifier{categories: map[string]string{
		"Starbucks":   "Food & Drink",
		"Corner Shop": "Shopping",
	}}, logger)

	stats, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Total: 5, Imported: 4, Skipped: 1, Classified: 2, Uncategorized: 1}, stats)
	assert.True(t, logger.HasEntry("INFO", "Imported transactions"))

	txs, err := st.ListTransactions(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, "Food & Drink", txs[0].Category)
	assert.Equal(t, "Salary", txs[1].Category, "existing category kept")
	assert.Equal(t, "", txs[3].Category)
}

func TestImporter_ClassifierFailureKeepsRow(t *testing.T) {
	path := writeCSV(t, "date,amount,merchant\n2025-01-03,-12.50,Starbucks\n")
	st := store.NewMemoryStore(nil)
	logger := logging.NewMockLogger()

	stats, err := NewImporter(st, stubClassifier{err: errors.New("boom")}, logger).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, logger.HasEntry("WARN", "Categorization failed"))
}

func TestImporter_InvalidRowStops(t *testing.T) {
	path := writeCSV(t, "date,amount,merchant\n2025-01-03,-12.50,Starbucks\nnot-a-date,-1,Oops\n2025-01-04,-3,Later\n")
	st := store.NewMemoryStore(nil)

	stats, err := NewImporter(st, nil, nil).ImportFile(context.Background(), path)
	var importErr *ledgererror.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, 3, importErr.Row)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Uncategorized)
}

func TestImporter_Add(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	classifier := stubClassifier{categories: map[string]string{"Uber": "Transport"}}

	tests := []struct {
		name     string
		tx       models.Transaction
		category string
		wantErr  bool
	}{
		{
			name:     "classifies missing category",
			tx:       models.Transaction{Date: day, Amount: decimal.NewFromInt(18), Kind: models.KindExpense, Merchant: " Uber "},
			category: "Transport",
		},
		{
			name:     "keeps supplied category",
			tx:       models.Transaction{Date: day, Amount: decimal.NewFromInt(18), Kind: models.KindExpense, Merchant: "Uber", Category: "Travel"},
			category: "Travel",
		},
		{
			name:    "unknown kind",
			tx:      models.Transaction{Date: day, Amount: decimal.NewFromInt(18), Kind: "transfer"},
			wantErr: true,
		},
		{
			name:    "zero amount",
			tx:      models.Transaction{Date: day, Kind: models.KindIncome},
			wantErr: true,
		},
		{
			name:    "missing date",
			tx:      models.Transaction{Amount: decimal.NewFromInt(5), Kind: models.KindIncome},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore(nil)
			got, err := NewImporter(st, classifier, nil).Add(ctx, tt.tx)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.category, got.Category)

			txs, err := st.ListTransactions(ctx, models.TransactionFilter{})
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, "Uber", txs[0].Merchant)
		})
	}
}
