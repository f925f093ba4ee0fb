// Package money holds the monetary rounding rules of the payroll engine.
// Every contribution amount is rounded here and nowhere else.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	twenty  = decimal.NewFromInt(20)
	hundred = decimal.NewFromInt(100)

	// WorkingDaysPerMonth is the Swiss average of working days in a month.
	WorkingDaysPerMonth = decimal.RequireFromString("21.74")

	// StandardWeeklyHours is the reference full-time week used to derive weekly hours from occupancy.
	StandardWeeklyHours = decimal.NewFromInt(42)
)

// RoundToFive rounds an amount to the nearest 0.05 (one Rappen step).
// Halves round away from zero, so 10.025 becomes 10.05.
func RoundToFive(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(twenty).Round(0).Div(twenty).Round(2)
}

// PercentRounded returns base × percent / 100 rounded to Rappen.
func PercentRounded(base, percent decimal.Decimal) decimal.Decimal {
	return RoundToFive(base.Mul(percent).Div(hundred))
}

// ApplyRate returns base × rate rounded to Rappen, where rate is a decimal
// fraction such as 0.053.
func ApplyRate(base, rate decimal.Decimal) decimal.Decimal {
	return RoundToFive(base.Mul(rate))
}

// PercentToFraction converts 5.3 into 0.053.
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// FractionToPercent converts 0.053 into 5.3.
func FractionToPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}

// NonNegative floors v at zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	return decimal.Max(v, decimal.Zero)
}

// Format renders an amount with two decimals and an apostrophe thousands separator (12'345.60).
func Format(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '\'')
		}
		out = append(out, c)
	}
	res := string(out) + frac
	if neg {
		res = "-" + res
	}
	return res
}
