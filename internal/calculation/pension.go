package calculation

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
)

// CalculateBVG returns the occupational pension contribution on the monthly
// insurable salary. Below the entry threshold both shares are zero, which is
// a valid outcome and not a configuration problem.
func CalculateBVG(insured InsuredSalary, emp *domain.EmployeeProfile, r domain.BVGRates) domain.Contribution {
	if emp.BVGExempt || !insured.Liable {
		return zeroContribution()
	}
	return domain.Contribution{
		Employer: money.ApplyRate(insured.InsurableMonthly, r.Employer),
		Employee: money.ApplyRate(insured.InsurableMonthly, r.Employee),
	}
}
