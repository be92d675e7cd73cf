package domain

import (
	"github.com/shopspring/decimal"
)

// moneyPrecision is the number of kuruş digits kept when presenting lira amounts.
const moneyPrecision = 2

var hundred = decimal.NewFromInt(100)

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PercentChange returns (current - initial) / initial * 100, or zero when initial is zero.
func PercentChange(initial, current decimal.Decimal) decimal.Decimal {
	if initial.IsZero() {
		return decimal.Zero
	}
	return current.Sub(initial).Div(initial).Mul(hundred)
}

// RoundMoney rounds a lira amount to kuruş.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPrecision)
}

// MoneyFloat converts a lira amount to float64 for spreadsheet cells.
func MoneyFloat(d decimal.Decimal) float64 {
	f, _ := RoundMoney(d).Float64()
	return f
}
