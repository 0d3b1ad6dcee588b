package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places shown for MXN amounts
const MoneyPlaces = 2

const dateLayout = "2006-01-02"

// Bounds on request amounts. Rounding and comparison rescale the coefficient
// to the smaller exponent, so both scale and magnitude must stay small.
const (
	minAmountExponent = -12
	maxAmountExponent = 12
	maxAmountDigits   = 20
)

// RoundAmount rounds half away from zero, which is round-half-up for the
// non-negative amounts the service deals with. Use it only at the edge.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// AmountInRange reports whether amount is safe to round and compare
func AmountInRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return amount.NumDigits() <= maxAmountDigits
}

// RoundFloat converts a boundary float into an exact, rounded amount
func RoundFloat(amount float64) decimal.Decimal {
	return RoundAmount(decimal.NewFromFloat(amount))
}

// FormatAmount renders an amount with exactly two decimals
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPlaces)
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DateOnly truncates a timestamp to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
