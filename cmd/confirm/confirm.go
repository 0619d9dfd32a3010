// Package confirm records a user's category choice for a merchant
package confirm

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
)

var (
	merchant  string
	category  string
	canonical string
)

// Cmd represents the confirm command
var Cmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm the category of a merchant",
	Long: `Confirm the category of a merchant. The choice is saved as a mapping and
wins over keyword heuristics for this merchant and similar spellings.`,
	RunE: confirmFunc,
}

func init() {
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name")
	Cmd.Flags().StringVarP(&category, "category", "g", "", "Category to assign")
	Cmd.Flags().StringVar(&canonical, "canonical", "", "Display name for the merchant (optional)")
	_ = Cmd.MarkFlagRequired("merchant")
	_ = Cmd.MarkFlagRequired("category")
}

func confirmFunc(cmd *cobra.Command, args []string) error {
	mapping, err := root.GetContainer().GetCategorizer().ConfirmCategory(cmd.Context(), models.ConfirmRequest{
		Merchant:  merchant,
		Category:  category,
		Canonical: canonical,
	})
	if err != nil {
		return fmt.Errorf("error confirming category: %w", err)
	}

	return common.Render(cmd, root.SharedFlags.Format, mapping, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %s -> %s (%s)\n", mapping.Merchant, mapping.Category, mapping.DisplayName())
	})
}
