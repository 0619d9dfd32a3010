// Package classify handles the transaction classification command
package classify

import (
	"fmt"
	"io"

	"fjacquet/fin-insights/cmd/common"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	merchant string
	notes    string
	amount   string
	date     string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a transaction by merchant and notes",
	Long: `Classify a transaction using saved merchant mappings first, then keyword
heuristics. The result also reports whether the merchant recurs recently and
whether the amount is anomalous.`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name")
	Cmd.Flags().StringVarP(&notes, "notes", "n", "", "Transaction notes (optional)")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Transaction amount (optional)")
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Transaction date (optional)")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	req := models.ClassificationRequest{Merchant: merchant, Notes: notes}
	if amount != "" {
		a, err := common.ParseAmount("amount", amount)
		if err != nil {
			return err
		}
		req.Amount = decimal.NewNullDecimal(a)
	}
	if date != "" {
		d, err := common.ParseDay("date", date)
		if err != nil {
			return err
		}
		req.Date = &d
	}

	result, err := root.GetContainer().GetCategorizer().Classify(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("error classifying transaction: %w", err)
	}

	return common.Render(cmd, root.SharedFlags.Format, result, func(w io.Writer) {
		category := result.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "Category:\t%s\n", category)
		fmt.Fprintf(w, "Confidence:\t%s\n", common.FormatFloat(result.Confidence))
		fmt.Fprintf(w, "Merchant:\t%s\n", result.NormalizedMerchant)
		fmt.Fprintf(w, "Strategy:\t%s\n", result.Strategy)
		fmt.Fprintf(w, "Recurring:\t%t\n", result.IsRecurring)
		fmt.Fprintf(w, "Anomaly:\t%t\n", result.Anomaly)
		fmt.Fprintf(w, "Explanation:\t%s\n", result.Explanation)
	})
}
