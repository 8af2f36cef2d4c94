// Package money centralizes fixed-point currency handling.
//
// All monetary values in the system are shopspring decimals with two
// fractional digits. Arithmetic stays exact, so equality checks against
// counted amounts and policy thresholds never suffer rounding drift.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Scale is the number of fractional digits carried by every amount.
const Scale = 2

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Parse converts a decimal string into an amount, rejecting values with
// more than two fractional digits.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: invalid amount %q", s)
	}
	if d.Exponent() < -Scale {
		return decimal.Zero, fmt.Errorf("money: amount %q has more than %d decimal places", s, Scale)
	}
	return d, nil
}

// FromCents builds an amount from integer minor units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// String renders an amount with exactly two decimal places, e.g. "200.00".
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// FormatBRL renders an amount for human-facing output in Brazilian
// conventions, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprintf("R$ %v", number.Decimal(f, number.Scale(Scale)))
}
