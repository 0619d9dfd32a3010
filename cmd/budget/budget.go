// Package budget handles budget commands
package budget

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	category  string
	amount    string
	period    string
	startDate string
)

// Cmd represents the budget command group
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage spending budgets",
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or overwrite the budget for a category and period",
	Long: `Create or overwrite the budget for a category and period. Without a
category the budget covers all expenses.`,
	RunE: setFunc,
}

var statusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show current period utilization of one or all budgets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  statusFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		budgets, err := root.GetContainer().GetCalculator().ListBudgets(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing budgets: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, budgets, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tCATEGORY\tAMOUNT\tPERIOD")
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, label(b), common.Money(b.Amount), b.PeriodType)
			}
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.GetContainer().GetCalculator().DeleteBudget(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("error deleting budget: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted budget %s\n", args[0])
		return nil
	},
}

func init() {
	setCmd.Flags().StringVarP(&category, "category", "g", "", "Category (empty for overall)")
	setCmd.Flags().StringVarP(&amount, "amount", "a", "", "Budget amount per period")
	setCmd.Flags().StringVarP(&period, "period", "p", string(models.PeriodMonthly), "Period (monthly or weekly)")
	setCmd.Flags().StringVar(&startDate, "start", "", "Start date (default: today)")
	_ = setCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(setCmd, statusCmd, listCmd, deleteCmd)
}

func setFunc(cmd *cobra.Command, args []string) error {
	a, err := common.ParseAmount("amount", amount)
	if err != nil {
		return err
	}
	start, err := common.ParseDay("start", startDate)
	if err != nil {
		return err
	}
	b, err := root.GetContainer().GetCalculator().SetBudget(cmd.Context(), models.Budget{
		Category:   category,
		Amount:     a,
		PeriodType: models.PeriodType(strings.ToLower(period)),
		StartDate:  start,
	})
	if err != nil {
		return fmt.Errorf("error saving budget: %w", err)
	}
	return common.Render(cmd, root.SharedFlags.Format, b, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %s budget %s: %s (%s)\n", b.PeriodType, b.ID, common.Money(b.Amount), label(b))
	})
}

func statusFunc(cmd *cobra.Command, args []string) error {
	calc := root.GetContainer().GetCalculator()
	var statuses []models.BudgetStatus
	if len(args) == 1 {
		s, err := calc.BudgetStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error computing budget status: %w", err)
		}
		statuses = append(statuses, s)
	} else {
		var err error
		if statuses, err = calc.BudgetStatuses(cmd.Context()); err != nil {
			return fmt.Errorf("error computing budget status: %w", err)
		}
	}
	return RenderStatuses(cmd, statuses)
}

// RenderStatuses prints budget statuses in the selected output format.
func RenderStatuses(cmd *cobra.Command, statuses []models.BudgetStatus) error {
	return common.Render(cmd, root.SharedFlags.Format, statuses, func(w io.Writer) {
		fmt.Fprintln(w, "CATEGORY\tPERIOD\tBUDGET\tSPENT\tREMAINING\tUSED %\tPROJECTED\tOVER")
		for _, s := range statuses {
			fmt.Fprintf(w, "%s\t%s..%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
				label(s.Budget),
				common.FormatDay(&s.PeriodStart), common.FormatDay(&s.PeriodEnd),
				common.Money(s.Budget.Amount), common.Money(s.Spent), common.Money(s.Remaining),
				common.FormatFloat(s.UtilizationPct), common.Money(s.ProjectedSpent), s.IsOverBudget)
		}
	})
}

func label(b models.Budget) string {
	if b.IsOverall() {
		return "(overall)"
	}
	return b.Category
}
