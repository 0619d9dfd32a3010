package common

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/ledgererror"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

func TestRender(t *testing.T) {
	v := sample{Name: "Rent", Amount: decimal.RequireFromString("1200.5")}
	text := func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", v.Name)
	}

	tests := []struct {
		format   string
		want     string
		errorMsg string
	}{
		{format: "", want: "Name:  Rent\n"},
		{format: FormatText, want: "Name:  Rent\n"},
		{format: FormatJSON, want: "{\n  \"name\": \"Rent\",\n  \"amount\": \"1200.5\"\n}\n"},
		{format: FormatYAML, want: "name: Rent\namount: \"1200.5\"\n"},
		{format: "xml", errorMsg: "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			err := Render(cmd, tt.format, v, text)
			if tt.errorMsg != "" {
				assert.ErrorContains(t, err, tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("amount", "1'250,40")
	require.NoError(t, err)
	assert.Equal(t, "1250.4", d.String())

	_, err = ParseAmount("amount", "lots")
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("date", "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", FormatDay(&d))

	zero, err := ParseDay("date", "  ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDay("date", "soon")
	assert.ErrorIs(t, err, ledgererror.ErrInvalidInput)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "-", FormatDay(nil))
	assert.Equal(t, "-", FormatDay(&time.Time{}))
	assert.Equal(t, "33.33", FormatFloat(33.3333))

	saved := root.SharedFlags.Currency
	defer func() { root.SharedFlags.Currency = saved }()
	root.SharedFlags.Currency = ""
	assert.Equal(t, "12.50", Money(decimal.RequireFromString("12.5")))
	root.SharedFlags.Currency = "CHF"
	assert.Equal(t, "CHF 12.50", Money(decimal.RequireFromString("12.5")))
}
