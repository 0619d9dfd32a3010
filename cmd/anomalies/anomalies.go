// Package anomalies handles large expense anomaly commands
package anomalies

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	days       int
	showHidden bool
)

// Cmd represents the anomalies command group
var Cmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Scan for and review unusually large expenses",
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Flag large expenses of the last days",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := root.GetContainer().GetScorer().Scan(cmd.Context(), days)
		if err != nil {
			return fmt.Errorf("error scanning for anomalies: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, result, func(w io.Writer) {
			fmt.Fprintf(w, "Scanned %d expenses, flagged %d new anomalies\n", result.Scanned, result.Created)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List flagged anomalies, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := root.GetContainer().GetScorer().List(cmd.Context(), showHidden)
		if err != nil {
			return fmt.Errorf("error listing anomalies: %w", err)
		}
		return renderRecords(cmd, records)
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an anomaly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := root.GetContainer().GetScorer().Dismiss(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error dismissing anomaly: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, rec, func(w io.Writer) {
			fmt.Fprintf(w, "Dismissed anomaly %s\n", rec.ID)
		})
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Hide an anomaly for some days",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := root.GetContainer().GetScorer().Snooze(cmd.Context(), args[0], days)
		if err != nil {
			return fmt.Errorf("error snoozing anomaly: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, rec, func(w io.Writer) {
			fmt.Fprintf(w, "Snoozed anomaly %s until %s\n", rec.ID, common.FormatDay(rec.SnoozedUntil))
		})
	},
}

func init() {
	scanCmd.Flags().IntVarP(&days, "days", "d", 0, "Scan window in days (default from config)")
	snoozeCmd.Flags().IntVarP(&days, "days", "d", 0, "Snooze length in days (default from config)")
	listCmd.Flags().BoolVar(&showHidden, "all", false, "Include dismissed and snoozed anomalies")

	Cmd.AddCommand(scanCmd, listCmd, dismissCmd, snoozeCmd)
}

func renderRecords(cmd *cobra.Command, records []models.AnomalyRecord) error {
	return common.Render(cmd, root.SharedFlags.Format, records, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tTRANSACTION\tAMOUNT\tCATEGORY\tSTATE\tMESSAGE")
		for _, r := range records {
			state := "open"
			switch {
			case r.Dismissed:
				state = "dismissed"
			case r.SnoozedUntil != nil:
				state = "snoozed until " + common.FormatDay(r.SnoozedUntil)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.TransactionID, common.Money(r.Amount), r.Category, state, r.Message)
		}
	})
}
