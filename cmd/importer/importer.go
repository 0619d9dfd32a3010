// Package importer handles the CSV transaction import command
package importer

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file.csv>...",
	Short: "Import transactions from CSV files",
	Long: `Import transactions from CSV files with the columns date, amount, type,
merchant, notes and category. Rows without a category are classified on the
way in. Without a type, negative amounts are expenses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: importFunc,
}

func importFunc(cmd *cobra.Command, args []string) error {
	importer := root.GetContainer().GetImporter()
	for _, file := range args {
		if err := validation.IsValidImportFile(file); err != nil {
			return err
		}
		stats, err := importer.ImportFile(cmd.Context(), file)
		if err != nil {
			return fmt.Errorf("error importing %s: %w", file, err)
		}
		err = common.Render(cmd, root.SharedFlags.Format, stats, func(w io.Writer) {
			fmt.Fprintf(w, "%s:\t%d imported, %d skipped, %d classified, %d uncategorized, %d failed\n",
				file, stats.Imported, stats.Skipped, stats.Classified, stats.Uncategorized, stats.Failed)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
