package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the length of a budget period.
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodWeekly  PeriodType = "weekly"
)

// Valid reports whether p is a supported period.
func (p PeriodType) Valid() bool {
	return p == PeriodMonthly || p == PeriodWeekly
}

// Budget caps spending per period. An empty Category means the overall budget.
type Budget struct {
	ID         string          `json:"id" yaml:"id"`
	Category   string          `json:"category,omitempty" yaml:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	PeriodType PeriodType      `json:"period_type" yaml:"period_type"`
	StartDate  time.Time       `json:"start_date" yaml:"start_date"`
}

// IsOverall reports whether the budget covers every category.
func (b Budget) IsOverall() bool {
	return b.Category == ""
}

// BudgetStatus is the current-period evaluation of a budget.
type BudgetStatus struct {
	Budget         Budget          `json:"budget"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	UtilizationPct float64         `json:"utilization_pct"`
	ProjectedSpent decimal.Decimal `json:"projected_spent"`
	IsOverBudget   bool            `json:"is_over_budget"`
}
