package calculation

import (
	"time"

	"github.com/rgehrsitz/lohn/internal/dateutil"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	fiftyTwo       = decimal.NewFromInt(52)
	thirteenthRate = decimal.RequireFromString("8.33")
)

// EffectiveMonthly returns the full-month salary of a fixed-salary employee:
// contract salary × occupancy, unless the contract salary is already the
// effective one.
func EffectiveMonthly(emp *domain.EmployeeProfile) decimal.Decimal {
	if emp.SalaryIsEffective {
		return emp.ContractSalary
	}
	return emp.ContractSalary.Mul(emp.OccupancyPercent).Div(hundred)
}

// Prorate scales a monthly salary to the working days employed in the month
// when the hire or termination date falls into it. Otherwise the full salary
// is returned unchanged.
func Prorate(full decimal.Decimal, emp *domain.EmployeeProfile, year int, month time.Month) decimal.Decimal {
	hiredIn := dateutil.InMonth(emp.HireDate, year, month)
	leftIn := dateutil.InMonth(emp.TerminationDate, year, month)
	if !hiredIn && !leftIn {
		return full
	}
	from, to, ok := dateutil.Overlap(emp.HireDate, emp.TerminationDate, year, month)
	if !ok {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(dateutil.WorkingDays(from, to)))
	ratio := decimal.Min(days.Div(money.WorkingDaysPerMonth), decimal.NewFromInt(1))
	return full.Mul(ratio)
}

// VacationPercent returns the vacation supplement for hourly pay. A manual
// override wins; otherwise it is weeks / (52 - weeks), which yields 8.33,
// 10.64 and 13.04 for 4, 5 and 6 weeks. Less than the statutory 4 weeks
// counts as 4, more than MaxVacationWeeks counts as the maximum.
func VacationPercent(emp *domain.EmployeeProfile) decimal.Decimal {
	if emp.VacationPercentOverride != nil {
		return *emp.VacationPercentOverride
	}
	weeks := lo.Clamp(emp.VacationWeeks, 4, domain.MaxVacationWeeks)
	w := decimal.NewFromInt(int64(weeks))
	return w.Div(fiftyTwo.Sub(w)).Mul(hundred).Round(2)
}

// ThirteenthShare returns the share of a monthly salary paid as 13th salary
// in the given month: 1, 0.5 or 0.
func ThirteenthShare(model domain.ThirteenthModel, month time.Month) decimal.Decimal {
	switch model {
	case domain.ThirteenthNovember:
		if month == time.November {
			return decimal.NewFromInt(1)
		}
	case domain.ThirteenthDecember:
		if month == time.December {
			return decimal.NewFromInt(1)
		}
	case domain.ThirteenthJuneNovember:
		if month == time.June || month == time.November {
			return decimal.RequireFromString("0.5")
		}
	}
	return decimal.Zero
}

// OvertimeRate returns the hourly overtime pay including the premium
func OvertimeRate(emp *domain.EmployeeProfile, policy domain.OvertimePolicy) decimal.Decimal {
	if emp.IsHourly() {
		return emp.HourlyRate.Mul(policy.Premium)
	}
	return EffectiveMonthly(emp).Div(money.WorkingDaysPerMonth).Div(policy.HoursPerDay).Mul(policy.Premium)
}

// SalaryLines generates the wage items of the month: base salary or hourly
// wage with supplements, 13th salary and overtime. Zero lines are omitted.
func SalaryLines(emp *domain.EmployeeProfile, year int, month time.Month, hours, overtimeHours decimal.Decimal, policy domain.OvertimePolicy) []domain.LineItem {
	var lines []domain.LineItem
	add := func(cat domain.Category, desc string, qty, unit, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		lines = append(lines, domain.LineItem{
			Category:    cat,
			Description: desc,
			Quantity:    qty,
			UnitAmount:  unit,
			Amount:      amount,
			Generated:   true,
		})
	}
	one := decimal.NewFromInt(1)

	if emp.IsHourly() {
		base := money.RoundToFive(hours.Mul(emp.HourlyRate))
		add(domain.CategoryHourlyWage, "Hourly wage", hours, emp.HourlyRate, base)

		vacPct := VacationPercent(emp)
		vacation := money.PercentRounded(base, vacPct)
		add(domain.CategoryVacationSupplement, "Vacation supplement "+vacPct.StringFixed(2)+"%", one, vacation, vacation)

		holiday := money.PercentRounded(base, emp.HolidayPercent)
		add(domain.CategoryHolidaySupplement, "Holiday supplement "+emp.HolidayPercent.StringFixed(2)+"%", one, holiday, holiday)

		if emp.ThirteenthModel.Active() {
			accrual := money.PercentRounded(base.Add(vacation).Add(holiday), thirteenthRate)
			add(domain.CategoryThirteenthAccrual, "13th salary accrual 8.33%", one, accrual, accrual)
		}
	} else {
		full := EffectiveMonthly(emp)
		salary := money.RoundToFive(Prorate(full, emp, year, month))
		add(domain.CategoryMonthlySalary, "Monthly salary", one, salary, salary)

		if share := ThirteenthShare(emp.ThirteenthModel, month); share.IsPositive() {
			thirteenth := money.RoundToFive(full.Mul(share))
			add(domain.CategoryThirteenthSalary, "13th salary", share, full, thirteenth)
		}
	}

	if overtimeHours.IsPositive() {
		rate := OvertimeRate(emp, policy)
		add(domain.CategoryOvertime, "Overtime", overtimeHours, rate.Round(4), money.RoundToFive(rate.Mul(overtimeHours)))
	}
	return lines
}
