package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const displayPrecision = 2

var hundred = decimal.NewFromInt(100)

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Ratio returns num / den, or zero when den <= 0.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent returns num / den * 100, or zero when den <= 0.
// A non-positive denominator never produces NaN or Infinity.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	return Ratio(num, den).Mul(hundred)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}

// RoundDisplay rounds to two decimal places for exported reports.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPrecision)
}
