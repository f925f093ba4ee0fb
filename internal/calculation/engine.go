// Package calculation computes the monthly payroll of one employee: gross
// salary, the statutory contributions, withholding tax and net payout.
package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/shopspring/decimal"
)

// Input is everything one (employee, month, year) computation reads
type Input struct {
	Employee      *domain.EmployeeProfile
	Employer      domain.Employer
	Year          int
	Month         int
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
	Items         []domain.LineItem
	PriorYTD      domain.Accumulators
	Overtime      *domain.OvertimePolicy // nil uses the engine's policy
}

// Engine orchestrates the calculators in their dependency order
type Engine struct {
	Rates    rates.Source
	Overtime domain.OvertimePolicy
	Logger   Logger
	Now      func() time.Time
}

// NewEngine creates an engine reading rates from src
func NewEngine(src rates.Source) *Engine {
	return &Engine{
		Rates:    src,
		Overtime: domain.DefaultOvertimePolicy(),
		Logger:   NopLogger{},
		Now:      time.Now,
	}
}

// SetLogger sets a logger; nil resets to a no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// WeeklyHours derives the weekly hours used for the NBU threshold. Hourly
// employees without an occupancy percentage are measured by the hours worked
// in the month.
func WeeklyHours(emp *domain.EmployeeProfile, hoursWorked decimal.Decimal) decimal.Decimal {
	if emp.IsHourly() && emp.OccupancyPercent.IsZero() {
		weeksPerMonth := money.WorkingDaysPerMonth.Div(decimal.NewFromInt(5))
		return hoursWorked.Div(weeksPerMonth)
	}
	return emp.WeeklyHours(money.StandardWeeklyHours)
}

// Compute runs the full pipeline: salary lines, basis aggregation, YTD
// capping, the eight calculators and net derivation. Either a complete
// result is returned or an error naming the failing part; nothing is
// partially applied. The result is always a draft carrying its YTD delta.
func (e *Engine) Compute(in Input) (*domain.PayrollResult, error) {
	policy := e.Overtime
	if in.Overtime != nil {
		policy = *in.Overtime
	}
	if err := checkInput(in, policy); err != nil {
		return nil, err
	}
	emp := in.Employee
	month := time.Month(in.Month)
	ytd := in.PriorYTD.ForYear(in.Year)

	items := SalaryLines(emp, in.Year, month, in.HoursWorked, in.OvertimeHours, policy)
	for _, li := range in.Items {
		li.Amount = itemAmount(li)
		li.Generated = false
		items = append(items, li)
	}
	sums := Aggregate(items)
	e.Logger.Debugf("%s %04d-%02d: gross=%s ahv=%s alv=%s uvg=%s bvg=%s qst=%s",
		emp.Label(), in.Year, in.Month, sums.Gross, sums.AHV, sums.ALV, sums.UVG, sums.BVG, sums.QST)

	ahvRates, err := e.Rates.AHV(in.Year)
	if err != nil {
		return nil, err
	}
	alvRates, err := e.Rates.ALV(in.Year)
	if err != nil {
		return nil, err
	}
	ktgRates, err := e.Rates.KTG()
	if err != nil {
		return nil, err
	}
	bvgRates, err := e.Rates.BVG(in.Year)
	if err != nil {
		return nil, err
	}
	fakRates, err := e.Rates.FAK(in.Year, in.Employer.Canton)
	if err != nil {
		return nil, err
	}
	vkRates, err := e.Rates.VK(in.Year)
	if err != nil {
		return nil, err
	}

	res := &domain.PayrollResult{
		EmployeeID: emp.ID,
		Year:       in.Year,
		Month:      in.Month,
		Status:     domain.StatusDraft,
		Items:      items,
		PriorYTD:   ytd,
		ComputedAt: e.Now().UTC(),
	}

	// AHV
	ahvBasis := AHVBasis(sums.AHV, emp, ahvRates)
	res.AHV = CalculateAHV(ahvBasis, ahvRates)

	// ALV
	alvBasis := decimal.Zero
	if !emp.Retiree {
		alvBasis = Capped(sums.ALV, ytd.ALVBasis, alvRates.Ceiling)
	}
	res.ALV = CalculateALV(alvBasis, emp, alvRates)

	// UVG (BU/NBU); exempt employees need no insurer record
	uvgBasis := decimal.Zero
	res.UVG = zeroContribution()
	if emp.IsUVGLiable() {
		uvgRates, err := e.Rates.UVG(in.Year)
		if err != nil {
			return nil, err
		}
		uvgBasis = Capped(sums.UVG, ytd.UVGBasis, uvgRates.Ceiling)
		res.UVG = CalculateUVG(uvgBasis, WeeklyHours(emp, in.HoursWorked), emp, uvgRates)
	}

	// KTG
	ktgBasis := KTGBasis(sums.UVG, ktgRates)
	res.KTG = CalculateKTG(ktgBasis, ktgRates)

	// BVG
	insured := InsuredSalary{}
	if !emp.BVGExempt {
		insured = CalculateInsuredSalary(sums.BVG, ytd.BVGInsured, bvgRates)
	}
	res.BVG = CalculateBVG(insured, emp, bvgRates)
	if !insured.Liable {
		e.Logger.Debugf("%s: BVG annual salary %s below entry threshold %s", emp.Label(), insured.Annual, bvgRates.EntryThreshold)
	}

	social := res.AHV.Employee.Add(res.ALV.Employee).Add(res.UVG.Employee).Add(res.KTG.Employee).Add(res.BVG.Employee)

	// QST
	qstBasis := money.NonNegative(sums.QST.Sub(social))
	res.QST, err = CalculateQST(qstBasis, in.Year, emp, e.Rates)
	if err != nil {
		return nil, err
	}

	// FAK, then VK on the rounded AHV shares
	res.FAK = CalculateFAK(sums.Gross, fakRates)
	res.VK = CalculateVK(res.AHV, vkRates)

	res.Bases = domain.Bases{
		Gross: sums.Gross,
		AHV:   ahvBasis,
		ALV:   alvBasis,
		UVG:   uvgBasis,
		KTG:   ktgBasis,
		BVG:   insured.InsurableMonthly,
		QST:   qstBasis,
	}
	if !insured.Liable {
		res.Bases.BVG = decimal.Zero
	}

	res.EmployeeDeductions = social
	res.Reimbursements = sums.Reimbursements
	res.OtherDeductions = sums.Deductions
	res.Net = sums.Wages.Add(sums.Reimbursements).Sub(social).Sub(res.QST.Employee).Sub(sums.Deductions)

	res.YTD = domain.YTDDelta{
		ALVBasis:   alvBasis,
		UVGBasis:   uvgBasis,
		BVGBasis:   decimal.Zero,
		BVGInsured: res.Bases.BVG,
	}
	if insured.Liable {
		res.YTD.BVGBasis = sums.BVG
	}

	e.Logger.Infof("%s %04d-%02d: net %s, employer cost %s", emp.Label(), in.Year, in.Month,
		res.Net.StringFixed(2), res.EmployerCost().StringFixed(2))
	return res, nil
}

// ErrInvalidInput is wrapped by structural input errors
var ErrInvalidInput = errors.New("invalid payroll input")

func checkInput(in Input, policy domain.OvertimePolicy) error {
	if in.Employee == nil {
		return fmt.Errorf("%w: employee is required", ErrInvalidInput)
	}
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, in.Month)
	}
	if in.Year < 1900 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidInput, in.Year)
	}
	switch in.Employee.SalaryModel {
	case domain.SalaryMonthly, domain.SalaryHourly:
	default:
		return fmt.Errorf("%w: unknown salary model %q", ErrInvalidInput, in.Employee.SalaryModel)
	}
	if w := in.Employee.VacationWeeks; w < 0 || w > domain.MaxVacationWeeks {
		return fmt.Errorf("%w: vacation weeks %d out of range 0..%d", ErrInvalidInput, w, domain.MaxVacationWeeks)
	}
	if !policy.Premium.IsPositive() || !policy.HoursPerDay.IsPositive() {
		return fmt.Errorf("%w: overtime premium %s and hours per day %s must be positive",
			ErrInvalidInput, policy.Premium, policy.HoursPerDay)
	}
	for i, li := range in.Items {
		if !li.Category.Valid() {
			return fmt.Errorf("%w: item %d has unknown category", ErrInvalidInput, i)
		}
	}
	return nil
}

// itemAmount is quantity × unit amount rounded to Rappen. A zero quantity
// counts as one so that flat amounts can be entered without a quantity.
func itemAmount(li domain.LineItem) decimal.Decimal {
	qty := li.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return money.RoundToFive(qty.Mul(li.UnitAmount))
}
