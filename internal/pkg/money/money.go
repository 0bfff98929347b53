// Package money checks values against the two-decimal NUMERIC columns that store them.
package money

import (
	"github.com/shopspring/decimal"
)

// Largest values the NUMERIC(p, 2) columns in schema.sql accept.
var (
	MaxNumeric15 = decimal.RequireFromString("9999999999999.99")
	MaxNumeric10 = decimal.RequireFromString("99999999.99")
	MaxNumeric5  = decimal.RequireFromString("999.99")
)

// Positive returns a field message when v is not a positive whole number of
// cents no larger than max. It returns "" for a storable value.
func Positive(v float64, max decimal.Decimal) string {
	d := decimal.NewFromFloat(v)
	if !d.IsPositive() {
		return "must be greater than 0"
	}
	return check(d, max)
}

// NonNegative is Positive with zero allowed.
func NonNegative(v float64, max decimal.Decimal) string {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return "must be at least 0"
	}
	return check(d, max)
}

// Fits reports whether v, rounded to cents, is no larger than max.
func Fits(v float64, max decimal.Decimal) bool {
	return decimal.NewFromFloat(v).Round(2).LessThanOrEqual(max)
}

func check(d, max decimal.Decimal) string {
	if !d.Equal(d.Round(2)) {
		return "must have at most 2 decimal places"
	}
	if d.GreaterThan(max) {
		return "must not exceed " + max.StringFixed(2)
	}
	return ""
}
