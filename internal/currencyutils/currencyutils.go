// Package currencyutils parses and formats the monetary amounts users type or
// import.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`[€$£¥₣₤₹₽\s]|CHF|EUR|USD|GBP`)

// ParseAmount parses an amount written in any of the usual notations:
// "1234.56", "1,234.56", "1.234,56", "1'234.56", "1234,56", "CHF 12".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the plain form decimal parses.
// A lone comma followed by one or two digits is a decimal separator,
// otherwise commas group thousands.
func StandardizeAmount(amountStr string) string {
	s := currencyPattern.ReplaceAllString(strings.ToUpper(amountStr), "")
	s = strings.ReplaceAll(s, "'", "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// FormatAmount renders an amount with two decimals, prefixed by the currency
// symbol or code when one is given.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "EUR":
		return "€" + formatted
	case "USD":
		return "$" + formatted
	case "GBP":
		return "£" + formatted
	default:
		return strings.ToUpper(currency) + " " + formatted
	}
}
