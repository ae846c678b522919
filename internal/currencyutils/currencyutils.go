// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places every emitted amount is rendered with.
const AmountPlaces = 2

// hundred converts fractional rates to percentages.
var hundred = decimal.NewFromInt(100)

// ParseAmount parses a legacy dollar amount into a decimal value.
// It strips surrounding whitespace, the dollar sign and thousands separators,
// and renders accounting-style parentheses as a negative value:
//
//	"$1,234.50"  ->  1234.50
//	"($75.00)"   ->  -75.00
//	""           ->  0
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" || standardized == "-" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// MustParseAmount parses an amount and falls back to zero when the text is not numeric.
// The second return value reports whether the text was usable.
func MustParseAmount(amountStr string) (decimal.Decimal, bool) {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// StandardizeAmount converts a legacy currency string to a form decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)
	amountStr = strings.Trim(amountStr, "$")
	amountStr = strings.ReplaceAll(amountStr, ",", "")

	if strings.Contains(amountStr, "(") {
		amountStr = strings.Trim(amountStr, "()")
		amountStr = strings.Trim(amountStr, "$")
		amountStr = "-" + strings.TrimSpace(amountStr)
	}

	return strings.TrimSpace(amountStr)
}

// FormatAmount renders an amount as plain decimal text with two places, e.g. "1234.50" or "-1.00".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPlaces)
}

// RoundCents rounds an amount to cents.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountPlaces)
}

// FormatRate renders a fractional rate as a percentage with two places, e.g. 0.265 -> "26.50".
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(AmountPlaces)
}

// Sum adds all amounts together.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// IsZero checks if an amount is zero
func IsZero(amount decimal.Decimal) bool {
	return amount.Equal(decimal.Zero)
}
