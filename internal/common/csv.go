// Package common provides the CSV ingestion shared by the CLI and tests.
package common

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/fin-insights/internal/currencyutils"
	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/gocarina/gocsv"
)

// TransactionRow is one line of a transaction import file. Every column is
// read as text and validated by ToTransaction.
type TransactionRow struct {
	Date     string `csv:"date"`
	Amount   string `csv:"amount"`
	Kind     string `csv:"type"`
	Merchant string `csv:"merchant"`
	Notes    string `csv:"notes"`
	Category string `csv:"category"`
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldInputFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// IsBlank reports whether every column is empty.
func (r TransactionRow) IsBlank() bool {
	return strings.TrimSpace(r.Date+r.Amount+r.Kind+r.Merchant+r.Notes+r.Category) == ""
}

// ToTransaction validates the row. Amounts are stored unsigned: without an
// explicit type a negative amount is an expense and a positive one income.
// file and line only label errors.
func (r TransactionRow) ToTransaction(file string, line int) (models.Transaction, error) {
	date, _, err := dateutils.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, &ledgererror.ImportError{File: file, Row: line, Field: "date", Value: r.Date, Err: err}
	}

	amount, err := currencyutils.ParseAmount(r.Amount)
	if err != nil {
		return models.Transaction{}, &ledgererror.ImportError{File: file, Row: line, Field: "amount", Value: r.Amount, Err: err}
	}

	kind := models.TransactionKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	switch {
	case kind == "" && amount.IsNegative():
		kind = models.KindExpense
	case kind == "":
		kind = models.KindIncome
	case !kind.Valid():
		return models.Transaction{}, &ledgererror.ImportError{
			File: file, Row: line, Field: "type", Value: r.Kind,
			Err: fmt.Errorf("must be %q or %q", models.KindExpense, models.KindIncome),
		}
	}

	return models.Transaction{
		Date:     date,
		Amount:   amount.Abs(),
		Kind:     kind,
		Merchant: strings.TrimSpace(r.Merchant),
		Notes:    strings.TrimSpace(r.Notes),
		Category: strings.TrimSpace(r.Category),
	}, nil
}
