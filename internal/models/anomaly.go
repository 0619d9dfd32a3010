package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyRecord flags one transaction. There is at most one per TransactionID.
type AnomalyRecord struct {
	ID            string          `json:"id" yaml:"id"`
	TransactionID string          `json:"transaction_id" yaml:"transaction_id"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	Category      string          `json:"category,omitempty" yaml:"category,omitempty"`
	Score         float64         `json:"score" yaml:"score"`
	Message       string          `json:"message" yaml:"message"`
	Dismissed     bool            `json:"dismissed" yaml:"dismissed"`
	SnoozedUntil  *time.Time      `json:"snoozed_until,omitempty" yaml:"snoozed_until,omitempty"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

// IsSnoozed reports whether the record is hidden on the given day.
func (a AnomalyRecord) IsSnoozed(now time.Time) bool {
	return a.SnoozedUntil != nil && truncateDay(now).Before(truncateDay(*a.SnoozedUntil))
}

// ScanResult summarizes an anomaly scan.
type ScanResult struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
}
