// Package goal handles savings goal commands
package goal

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	name     string
	target   string
	initial  string
	deadline string
	amount   string
)

// Cmd represents the goal command group
var Cmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage savings goals",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a savings goal",
	RunE:  createFunc,
}

var contributeCmd = &cobra.Command{
	Use:   "contribute <id>",
	Short: "Add a contribution to a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  contributeFunc,
}

var progressCmd = &cobra.Command{
	Use:   "progress [id]",
	Short: "Show progress and projected completion of one or all goals",
	Args:  cobra.MaximumNArgs(1),
	RunE:  progressFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := root.GetContainer().GetCalculator().ListGoals(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing goals: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, goals, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tCURRENT\tTARGET\tDEADLINE")
			for _, g := range goals {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					g.ID, g.Name, common.Money(g.CurrentAmount), common.Money(g.TargetAmount), common.FormatDay(g.Deadline))
			}
		})
	},
}

func init() {
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Goal name")
	createCmd.Flags().StringVarP(&target, "target", "a", "", "Target amount")
	createCmd.Flags().StringVar(&initial, "initial", "0", "Amount already saved")
	createCmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (optional)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("target")

	contributeCmd.Flags().StringVarP(&amount, "amount", "a", "", "Contribution amount")
	_ = contributeCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(createCmd, contributeCmd, progressCmd, listCmd)
}

func createFunc(cmd *cobra.Command, args []string) error {
	t, err := common.ParseAmount("target", target)
	if err != nil {
		return err
	}
	start, err := common.ParseAmount("initial", initial)
	if err != nil {
		return err
	}
	req := models.GoalRequest{Name: name, TargetAmount: t, InitialAmount: start}
	if deadline != "" {
		d, err := common.ParseDay("deadline", deadline)
		if err != nil {
			return err
		}
		req.Deadline = &d
	}

	g, err := root.GetContainer().GetCalculator().CreateGoal(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("error creating goal: %w", err)
	}
	return common.Render(cmd, root.SharedFlags.Format, g, func(w io.Writer) {
		fmt.Fprintf(w, "Created goal %s (%s): %s of %s\n", g.ID, g.Name, common.Money(g.CurrentAmount), common.Money(g.TargetAmount))
	})
}

func contributeFunc(cmd *cobra.Command, args []string) error {
	a, err := common.ParseAmount("amount", amount)
	if err != nil {
		return err
	}
	g, err := root.GetContainer().GetCalculator().Contribute(cmd.Context(), args[0], a)
	if err != nil {
		return fmt.Errorf("error recording contribution: %w", err)
	}
	return common.Render(cmd, root.SharedFlags.Format, g, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s of %s\n", g.Name, common.Money(g.CurrentAmount), common.Money(g.TargetAmount))
	})
}

func progressFunc(cmd *cobra.Command, args []string) error {
	calc := root.GetContainer().GetCalculator()
	var progress []models.GoalProgress
	if len(args) == 1 {
		p, err := calc.GoalProgress(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error computing goal progress: %w", err)
		}
		progress = append(progress, p)
	} else {
		var err error
		if progress, err = calc.GoalProgresses(cmd.Context()); err != nil {
			return fmt.Errorf("error computing goal progress: %w", err)
		}
	}
	return RenderProgress(cmd, progress)
}

// RenderProgress prints goal progress in the selected output format.
func RenderProgress(cmd *cobra.Command, progress []models.GoalProgress) error {
	return common.Render(cmd, root.SharedFlags.Format, progress, func(w io.Writer) {
		fmt.Fprintln(w, "NAME\tCURRENT\tTARGET\tPROGRESS %\tDAYS LEFT\tETA\tMESSAGE")
		for _, p := range progress {
			daysLeft := "-"
			if p.DaysLeft != nil {
				daysLeft = fmt.Sprint(*p.DaysLeft)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Name, common.Money(p.CurrentAmount), common.Money(p.TargetAmount),
				common.FormatFloat(p.ProgressPct), daysLeft, common.FormatDay(p.EstimatedCompletionDate), p.Message)
		}
	})
}
