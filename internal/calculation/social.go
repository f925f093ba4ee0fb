package calculation

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/shopspring/decimal"
)

// AHVBasis applies the monthly retiree allowance when it is not waived
func AHVBasis(sum decimal.Decimal, emp *domain.EmployeeProfile, r domain.AHVRates) decimal.Decimal {
	if emp.Retiree && !emp.RetireeDeductionWaived {
		return money.NonNegative(sum.Sub(r.RetireeAllowance))
	}
	return money.NonNegative(sum)
}

// CalculateAHV returns the old-age/survivors/disability contribution
func CalculateAHV(basis decimal.Decimal, r domain.AHVRates) domain.Contribution {
	return domain.Contribution{
		Employer: money.ApplyRate(basis, r.Employer),
		Employee: money.ApplyRate(basis, r.Employee),
	}
}

// CalculateALV returns the unemployment insurance contribution on the capped
// basis. Retirees never pay ALV.
func CalculateALV(capped decimal.Decimal, emp *domain.EmployeeProfile, r domain.ALVRates) domain.Contribution {
	if emp.Retiree {
		return zeroContribution()
	}
	return domain.Contribution{
		Employer: money.ApplyRate(capped, r.Employer),
		Employee: money.ApplyRate(capped, r.Employee),
	}
}

// DefaultNBUMinWeeklyHours is the weekly hours below which no NBU is due
var DefaultNBUMinWeeklyHours = decimal.NewFromInt(8)

// NBULiable reports whether the weekly hours reach the NBU threshold
func NBULiable(weeklyHours decimal.Decimal, r domain.UVGRates) bool {
	threshold := r.NBUMinWeeklyHr
	if threshold.IsZero() {
		threshold = DefaultNBUMinWeeklyHours
	}
	return weeklyHours.GreaterThanOrEqual(threshold)
}

// CalculateUVG returns BU as employer share and NBU as employee share
func CalculateUVG(capped, weeklyHours decimal.Decimal, emp *domain.EmployeeProfile, r domain.UVGRates) domain.Contribution {
	if !emp.IsUVGLiable() {
		return zeroContribution()
	}
	c := domain.Contribution{
		Employer: money.ApplyRate(capped, r.BU),
		Employee: decimal.Zero,
	}
	if NBULiable(weeklyHours, r) {
		c.Employee = money.ApplyRate(capped, r.NBU)
	}
	return c
}

// KTGBasis caps the accident-insurance basis at the configured monthly maximum
func KTGBasis(uvgBasis decimal.Decimal, r domain.KTGRates) decimal.Decimal {
	basis := money.NonNegative(uvgBasis)
	if r.MaxBasis != nil && r.MaxBasis.IsPositive() {
		basis = decimal.Min(basis, *r.MaxBasis)
	}
	return basis
}

// CalculateKTG returns the sick-pay insurance contribution
func CalculateKTG(basis decimal.Decimal, r domain.KTGRates) domain.Contribution {
	return domain.Contribution{
		Employer: money.ApplyRate(basis, r.Employer),
		Employee: money.ApplyRate(basis, r.Employee),
	}
}

func zeroContribution() domain.Contribution {
	return domain.Contribution{Employer: decimal.Zero, Employee: decimal.Zero}
}
