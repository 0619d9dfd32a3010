// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/currencyutils"
	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes v in the requested format. Text output is delegated to text,
// which receives a tab-aligned writer.
func Render(cmd *cobra.Command, format string, v any, text func(w io.Writer)) error {
	if format == "" {
		format = FormatText
	}
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()
	}
}

// ParseDay parses an optional date flag; empty input yields the zero time.
func ParseDay(flag, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, _, err := dateutils.ParseDate(raw)
	if err != nil {
		return time.Time{}, ledgererror.NewValidation(flag, raw, "is not a valid date")
	}
	return t, nil
}

// ParseAmount parses an amount flag in any notation currencyutils accepts.
func ParseAmount(flag, raw string) (decimal.Decimal, error) {
	d, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, ledgererror.NewValidation(flag, raw, "is not a valid amount")
	}
	return d, nil
}

// Money renders an amount with two decimals and the --currency label.
func Money(d decimal.Decimal) string {
	return currencyutils.FormatAmount(d, root.SharedFlags.Currency)
}

// FormatDay renders an optional date as YYYY-MM-DD, or "-" when unset.
func FormatDay(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return dateutils.ToISODate(*t)
}

// FormatFloat renders a ratio or percentage with two decimals.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
