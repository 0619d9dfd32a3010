// Package report prints an overview of the ledger
package report

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/budget"
	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/goal"
	"fjacquet/fin-insights/cmd/reminder"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

// Overview is everything the report command shows.
type Overview struct {
	Summary   models.Summary        `json:"summary" yaml:"summary"`
	Budgets   []models.BudgetStatus `json:"budgets" yaml:"budgets"`
	Goals     []models.GoalProgress `json:"goals" yaml:"goals"`
	Reminders []models.Reminder     `json:"reminders" yaml:"reminders"`
}

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Show totals, budget status, goal progress and due reminders",
	RunE:  reportFunc,
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	ctx := cmd.Context()

	var (
		o   Overview
		err error
	)
	if o.Summary, err = c.GetCalculator().Summary(ctx); err != nil {
		return fmt.Errorf("error computing summary: %w", err)
	}
	if o.Budgets, err = c.GetCalculator().BudgetStatuses(ctx); err != nil {
		return fmt.Errorf("error computing budget status: %w", err)
	}
	if o.Goals, err = c.GetCalculator().GoalProgresses(ctx); err != nil {
		return fmt.Errorf("error computing goal progress: %w", err)
	}
	if o.Reminders, err = c.GetReminders().Due(ctx, -1); err != nil {
		return fmt.Errorf("error listing due reminders: %w", err)
	}

	if root.SharedFlags.Format != common.FormatText && root.SharedFlags.Format != "" {
		return common.Render(cmd, root.SharedFlags.Format, o, nil)
	}

	err = common.Render(cmd, common.FormatText, o, func(w io.Writer) {
		fmt.Fprintf(w, "Income:\t%s\n", common.Money(o.Summary.TotalIncome))
		fmt.Fprintf(w, "Expenses:\t%s\n", common.Money(o.Summary.TotalExpense))
		fmt.Fprintf(w, "Balance:\t%s\n\n", common.Money(o.Summary.Balance))
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(o.Budgets) > 0 {
		fmt.Fprintln(out, "Budgets")
		if err := budget.RenderStatuses(cmd, o.Budgets); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	if len(o.Goals) > 0 {
		fmt.Fprintln(out, "Goals")
		if err := goal.RenderProgress(cmd, o.Goals); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	if len(o.Reminders) > 0 {
		fmt.Fprintln(out, "Reminders due")
		return reminder.RenderReminders(cmd, o.Reminders)
	}
	return nil
}
