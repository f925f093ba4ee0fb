package calculation

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Capped returns the part of this month's basis that still fits under the
// annual ceiling given what was already contributed on this year. The result
// is never negative and never exceeds ceiling - ytd.
func Capped(basis, ytd, ceiling decimal.Decimal) decimal.Decimal {
	if ytd.GreaterThanOrEqual(ceiling) {
		return decimal.Zero
	}
	return decimal.Min(money.NonNegative(basis), ceiling.Sub(ytd))
}

// InsuredSalary is the BVG insured salary of one month
type InsuredSalary struct {
	Liable           bool
	Annual           decimal.Decimal // annualised salary
	InsuredAnnual    decimal.Decimal // after coordination deduction and corridor
	InsuredMonthly   decimal.Decimal // InsuredAnnual / 12, rounded to Rappen
	InsurableMonthly decimal.Decimal // what remains of the annual maximum this year
}

// CalculateInsuredSalary annualises the month's BVG basis, applies the entry
// threshold, subtracts the coordination deduction, clamps into the
// [min, max] corridor and finally subtracts the already insured part of the
// year from the annual maximum.
func CalculateInsuredSalary(monthlyBasis, ytdInsured decimal.Decimal, r domain.BVGRates) InsuredSalary {
	annual := monthlyBasis.Mul(twelve)
	out := InsuredSalary{Annual: annual}
	if annual.LessThan(r.EntryThreshold) || annual.IsZero() {
		return out
	}
	out.Liable = true
	out.InsuredAnnual = money.Clamp(annual.Sub(r.CoordinationDeduction), r.MinInsured, r.MaxInsured)
	out.InsuredMonthly = money.RoundToFive(out.InsuredAnnual.Div(twelve))
	headroom := money.NonNegative(r.MaxInsured.Sub(ytdInsured))
	out.InsurableMonthly = decimal.Min(out.InsuredMonthly, headroom)
	return out
}
