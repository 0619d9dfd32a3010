package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTag is a recurring pattern the user explicitly confirmed.
type RecurringTag struct {
	ID            string          `json:"id" yaml:"id"`
	Merchant      string          `json:"merchant" yaml:"merchant"`
	Category      string          `json:"category,omitempty" yaml:"category,omitempty"`
	AverageAmount decimal.Decimal `json:"average_amount" yaml:"average_amount"`
	IntervalDays  int             `json:"interval_days,omitempty" yaml:"interval_days,omitempty"`
	NextExpected  *time.Time      `json:"next_expected,omitempty" yaml:"next_expected,omitempty"`
	Confirmed     bool            `json:"confirmed" yaml:"confirmed"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

// RecurringConfirmation is the input of an explicit recurrence confirmation.
// IntervalDays of zero leaves NextExpected unset.
type RecurringConfirmation struct {
	Merchant      string          `json:"merchant"`
	Category      string          `json:"category,omitempty"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	IntervalDays  int             `json:"interval_days,omitempty"`
}

// RecurrenceCheck is the outcome of an ad-hoc recurrence check.
type RecurrenceCheck struct {
	Merchant         string     `json:"merchant"`
	IsRecurring      bool       `json:"is_recurring"`
	Confidence       float64    `json:"confidence"`
	Occurrences      int        `json:"occurrences"`
	MeanIntervalDays float64    `json:"mean_interval_days"`
	StdDevDays       float64    `json:"stddev_days"`
	NextExpected     *time.Time `json:"next_expected,omitempty"`
}
