// Package recurring handles recurring payment commands
package recurring

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	merchant     string
	date         string
	category     string
	amount       string
	intervalDays int
	days         int
)

// Cmd represents the recurring command group
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect and manage recurring payments",
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a merchant's history looks recurring",
	Long: `Check whether the transactions of a merchant (and similar spellings) up to
a date form a regular pattern, and when the next one is expected.`,
	RunE: checkFunc,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm a merchant as a recurring payment",
	RunE:  confirmFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List confirmed recurring payments",
	RunE:  listFunc,
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List recurring payments expected in the next days",
	RunE:  upcomingFunc,
}

func init() {
	checkCmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name")
	checkCmd.Flags().StringVarP(&date, "date", "t", "", "Check history up to this date (default: today)")
	_ = checkCmd.MarkFlagRequired("merchant")

	confirmCmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name")
	confirmCmd.Flags().StringVarP(&category, "category", "g", "", "Category (optional)")
	confirmCmd.Flags().StringVarP(&amount, "amount", "a", "0", "Average amount")
	confirmCmd.Flags().IntVar(&intervalDays, "interval", 0, "Interval in days; 0 leaves the next date unset")
	_ = confirmCmd.MarkFlagRequired("merchant")

	upcomingCmd.Flags().IntVarP(&days, "days", "d", 30, "Look-ahead window in days")

	Cmd.AddCommand(checkCmd, confirmCmd, listCmd, upcomingCmd)
}

func checkFunc(cmd *cobra.Command, args []string) error {
	detector := root.GetContainer().GetDetector()
	at, err := common.ParseDay("date", date)
	if err != nil {
		return err
	}
	if at.IsZero() {
		at = detector.Now()
	}

	result, err := detector.Check(cmd.Context(), merchant, at)
	if err != nil {
		return fmt.Errorf("error checking recurrence: %w", err)
	}
	return common.Render(cmd, root.SharedFlags.Format, result, func(w io.Writer) {
		fmt.Fprintf(w, "Merchant:\t%s\n", result.Merchant)
		fmt.Fprintf(w, "Recurring:\t%t\n", result.IsRecurring)
		fmt.Fprintf(w, "Confidence:\t%s\n", common.FormatFloat(result.Confidence))
		fmt.Fprintf(w, "Occurrences:\t%d\n", result.Occurrences)
		fmt.Fprintf(w, "Mean interval:\t%s days\n", common.FormatFloat(result.MeanIntervalDays))
		fmt.Fprintf(w, "Next expected:\t%s\n", common.FormatDay(result.NextExpected))
	})
}

func confirmFunc(cmd *cobra.Command, args []string) error {
	avg, err := common.ParseAmount("amount", amount)
	if err != nil {
		return err
	}
	tag, err := root.GetContainer().GetDetector().Confirm(cmd.Context(), models.RecurringConfirmation{
		Merchant:      merchant,
		Category:      category,
		AverageAmount: avg,
		IntervalDays:  intervalDays,
	})
	if err != nil {
		return fmt.Errorf("error confirming recurring payment: %w", err)
	}
	return common.Render(cmd, root.SharedFlags.Format, tag, func(w io.Writer) {
		fmt.Fprintf(w, "Confirmed %s (next: %s)\n", tag.Merchant, common.FormatDay(tag.NextExpected))
	})
}

func listFunc(cmd *cobra.Command, args []string) error {
	tags, err := root.GetContainer().GetDetector().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("error listing recurring payments: %w", err)
	}
	return renderTags(cmd, tags)
}

func upcomingFunc(cmd *cobra.Command, args []string) error {
	tags, err := root.GetContainer().GetDetector().Upcoming(cmd.Context(), days)
	if err != nil {
		return fmt.Errorf("error listing upcoming payments: %w", err)
	}
	return renderTags(cmd, tags)
}

func renderTags(cmd *cobra.Command, tags []models.RecurringTag) error {
	return common.Render(cmd, root.SharedFlags.Format, tags, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tMERCHANT\tCATEGORY\tAMOUNT\tINTERVAL\tNEXT")
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				t.ID, t.Merchant, t.Category, common.Money(t.AverageAmount), t.IntervalDays, common.FormatDay(t.NextExpected))
		}
	})
}
