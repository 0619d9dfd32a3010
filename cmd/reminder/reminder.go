// Package reminder handles reminder commands
package reminder

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	title      string
	note       string
	dueDate    string
	dueDays    int
	snoozeDays int
	showHidden bool
)

// Cmd represents the reminder command group
var Cmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage dated reminders",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder",
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := common.ParseDay("due", dueDate)
		if err != nil {
			return err
		}
		r, err := root.GetContainer().GetReminders().Create(cmd.Context(), title, note, due)
		if err != nil {
			return fmt.Errorf("error adding reminder: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, r, func(w io.Writer) {
			fmt.Fprintf(w, "Added reminder %s due %s\n", r.ID, common.FormatDay(&r.DueDate))
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders by due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		reminders, err := root.GetContainer().GetReminders().List(cmd.Context(), showHidden)
		if err != nil {
			return fmt.Errorf("error listing reminders: %w", err)
		}
		return RenderReminders(cmd, reminders)
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reminders due within some days, overdue included",
	RunE: func(cmd *cobra.Command, args []string) error {
		reminders, err := root.GetContainer().GetReminders().Due(cmd.Context(), dueDays)
		if err != nil {
			return fmt.Errorf("error listing due reminders: %w", err)
		}
		return RenderReminders(cmd, reminders)
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := root.GetContainer().GetReminders().Dismiss(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error dismissing reminder: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, r, func(w io.Writer) {
			fmt.Fprintf(w, "Dismissed reminder %s\n", r.ID)
		})
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Hide a reminder for some days",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := root.GetContainer().GetReminders().Snooze(cmd.Context(), args[0], snoozeDays)
		if err != nil {
			return fmt.Errorf("error snoozing reminder: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, r, func(w io.Writer) {
			fmt.Fprintf(w, "Snoozed reminder %s until %s\n", r.ID, common.FormatDay(r.SnoozedUntil))
		})
	},
}

func init() {
	addCmd.Flags().StringVarP(&title, "title", "T", "", "Reminder title")
	addCmd.Flags().StringVarP(&note, "note", "n", "", "Note (optional)")
	addCmd.Flags().StringVarP(&dueDate, "due", "t", "", "Due date")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("due")

	listCmd.Flags().BoolVar(&showHidden, "all", false, "Include dismissed reminders")
	dueCmd.Flags().IntVarP(&dueDays, "days", "d", -1, "Window in days (default from config)")
	snoozeCmd.Flags().IntVarP(&snoozeDays, "days", "d", 0, "Snooze length in days (default from config)")

	Cmd.AddCommand(addCmd, listCmd, dueCmd, dismissCmd, snoozeCmd)
}

// RenderReminders prints reminders in the selected output format.
func RenderReminders(cmd *cobra.Command, reminders []models.Reminder) error {
	return common.Render(cmd, root.SharedFlags.Format, reminders, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tDUE\tTITLE\tNOTE")
		for _, r := range reminders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, common.FormatDay(&r.DueDate), r.Title, r.Note)
		}
	})
}
