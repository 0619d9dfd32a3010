// Package mappings lists saved merchant mappings
package mappings

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the mappings command
var Cmd = &cobra.Command{
	Use:   "mappings",
	Short: "List saved merchant mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		mappings, err := root.GetContainer().GetCategorizer().Mappings(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing mappings: %w", err)
		}
		return common.Render(cmd, root.SharedFlags.Format, mappings, func(w io.Writer) {
			fmt.Fprintln(w, "MERCHANT\tCATEGORY\tCANONICAL")
			for _, m := range mappings {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Merchant, m.Category, m.DisplayName())
			}
		})
	},
}
