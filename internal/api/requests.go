package api

import (
	"github.com/shopspring/decimal"
)

// Request bodies carry dates as YYYY-MM-DD strings.

type classifyRequest struct {
	Merchant string              `json:"merchant"`
	Notes    string              `json:"notes,omitempty"`
	Amount   decimal.NullDecimal `json:"amount"`
	Date     string              `json:"date,omitempty"`
}

type transactionRequest struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Kind     string          `json:"kind"`
	Merchant string          `json:"merchant,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	Category string          `json:"category,omitempty"`
}

type budgetRequest struct {
	Category   string          `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	PeriodType string          `json:"period_type,omitempty"`
	StartDate  string          `json:"start_date,omitempty"`
}

type goalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Deadline      string          `json:"deadline,omitempty"`
}

type goalUpdateRequest struct {
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
	Deadline      string           `json:"deadline,omitempty"`
	ClearDeadline bool             `json:"clear_deadline,omitempty"`
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type reminderRequest struct {
	Title   string `json:"title"`
	Note    string `json:"note,omitempty"`
	DueDate string `json:"due_date"`
}
