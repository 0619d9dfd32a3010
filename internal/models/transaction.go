package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind separates money going out from money coming in.
type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Transaction is a ledger record supplied by the record store.
type Transaction struct {
	ID        string          `json:"id" yaml:"id"`
	Date      time.Time       `json:"date" yaml:"date"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Kind      TransactionKind `json:"kind" yaml:"kind"`
	Merchant  string          `json:"merchant,omitempty" yaml:"merchant,omitempty"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Category  string          `json:"category,omitempty" yaml:"category,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// IsExpense returns true for outgoing transactions.
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// IsIncome returns true for incoming transactions.
func (t Transaction) IsIncome() bool {
	return t.Kind == KindIncome
}

// TransactionFilter narrows a transaction listing. Zero values disable a bound.
type TransactionFilter struct {
	Kind  TransactionKind
	Since time.Time
	Until time.Time
}

// Matches reports whether tx passes the filter. Bounds are inclusive and
// compared on the calendar day each value shows in its own location, so a
// UTC transaction date and a local-time bound agree on what "the same day" is.
func (f TransactionFilter) Matches(tx Transaction) bool {
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	day := truncateDay(tx.Date)
	if !f.Since.IsZero() && day.Before(truncateDay(f.Since)) {
		return false
	}
	if !f.Until.IsZero() && day.After(truncateDay(f.Until)) {
		return false
	}
	return true
}

// truncateDay maps t to midnight UTC of its wall-clock date.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
