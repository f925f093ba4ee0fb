package calculation

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/shopspring/decimal"
)

// CalculateFAK returns the family-allowance-fund levy on gross (employer only)
func CalculateFAK(gross decimal.Decimal, r domain.FAKRate) domain.Contribution {
	return domain.Contribution{
		Employer: money.ApplyRate(money.NonNegative(gross), r.Rate),
		Employee: decimal.Zero,
	}
}

// CalculateVK returns the administration-cost levy. It is applied to the sum
// of the separately rounded AHV shares, so AHV must be calculated first.
func CalculateVK(ahv domain.Contribution, r domain.VKRate) domain.Contribution {
	return domain.Contribution{
		Employer: money.ApplyRate(ahv.Total(), r.Rate),
		Employee: decimal.Zero,
	}
}
