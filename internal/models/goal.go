package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount always equals the sum of its
// contributions.
type Goal struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount" yaml:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" yaml:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

// GoalContribution is one deposit towards a goal.
type GoalContribution struct {
	ID        string          `json:"id" yaml:"id"`
	GoalID    string          `json:"goal_id" yaml:"goal_id"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// GoalProgress reports progress and projected completion of a goal.
type GoalProgress struct {
	GoalID                    string          `json:"id"`
	Name                      string          `json:"name"`
	TargetAmount              decimal.Decimal `json:"target_amount"`
	CurrentAmount             decimal.Decimal `json:"current_amount"`
	ProgressPct               float64         `json:"progress_pct"`
	DaysLeft                  *int            `json:"days_left"`
	IsCompleted               bool            `json:"is_completed"`
	Message                   string          `json:"message"`
	EstimatedCompletionDate   *time.Time      `json:"estimated_completion_date"`
	ProjectedMonthsToComplete *float64        `json:"projected_months_to_complete"`
	MonthlyNetSavings         float64         `json:"monthly_net_savings"`
	BehindPct                 *float64        `json:"behind_pct"`
}

// GoalRequest creates a goal. A positive InitialAmount is recorded as the
// first contribution.
type GoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
}

// GoalUpdate changes the descriptive fields of a goal. Nil fields are left
// untouched; the current amount only moves through contributions.
type GoalUpdate struct {
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	ClearDeadline bool             `json:"clear_deadline,omitempty"`
}
