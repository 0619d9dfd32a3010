// Package categories handles category maintenance commands
package categories

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	source string
	target string
)

// Cmd represents the categories command group
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Maintain transaction categories",
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold one category into another",
	Long: `Fold one category into another. Transactions, merchant mappings,
recurring tags, anomalies and budgets filed under the source move to the
target. A source budget is dropped when the target already has one for the
same period.`,
	RunE: mergeFunc,
}

func init() {
	mergeCmd.Flags().StringVar(&source, "from", "", "Category to merge away")
	mergeCmd.Flags().StringVar(&target, "into", "", "Category that receives the records")
	_ = mergeCmd.MarkFlagRequired("from")
	_ = mergeCmd.MarkFlagRequired("into")

	Cmd.AddCommand(mergeCmd)
}

func mergeFunc(cmd *cobra.Command, args []string) error {
	res, err := root.GetContainer().GetCategorizer().MergeCategory(cmd.Context(), models.CategoryMerge{
		Source: source,
		Target: target,
	})
	if err != nil {
		return fmt.Errorf("error merging categories: %w", err)
	}

	return common.Render(cmd, root.SharedFlags.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "Merged %s into %s\n", res.Source, res.Target)
		fmt.Fprintf(w, "Transactions: %d\n", res.Transactions)
		fmt.Fprintf(w, "Mappings: %d\n", res.Mappings)
		fmt.Fprintf(w, "Recurring tags: %d\n", res.RecurringTags)
		fmt.Fprintf(w, "Anomalies: %d\n", res.Anomalies)
		fmt.Fprintf(w, "Budgets moved: %d, dropped: %d\n", res.Budgets, res.BudgetsDropped)
	})
}
