// Package validation inspects a computed payroll result and reports
// plausibility findings. It never changes the result.
package validation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/lohn/internal/calculation"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Finding codes
const (
	CodeOK                   = "OK"
	CodeQSTNoRate            = "QST_NO_RATE"
	CodeNetNegative          = "NET_NEGATIVE"
	CodeHourlyNoHours        = "HOURLY_NO_HOURS"
	CodeNegativeInput        = "NEGATIVE_INPUT"
	CodeEmploymentDates      = "EMPLOYMENT_DATES"
	CodeBirthDateMissing     = "BIRTH_DATE_MISSING"
	CodeNBUBelowThreshold    = "NBU_BELOW_THRESHOLD"
	CodeNBUNotCharged        = "NBU_NOT_CHARGED"
	CodeBVGNotLiable         = "BVG_NOT_LIABLE"
	CodeAllowanceOverlap     = "ALLOWANCE_OVERLAP"
	CodeZeroContribution     = "ZERO_CONTRIBUTION"
	CodeCeilingReached       = "CEILING_REACHED"
	CodeBVGBelowEntry        = "BVG_BELOW_ENTRY"
	CodeThirteenthNotDue     = "THIRTEENTH_NOT_DUE"
	CodeOccupancyImplausible = "OCCUPANCY_IMPLAUSIBLE"
)

// Period carries the per-month inputs the rules look at
type Period struct {
	Year          int
	Month         int
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
}

type checker struct {
	emp      *domain.EmployeeProfile
	items    []domain.LineItem
	result   *domain.PayrollResult
	src      rates.Source
	period   Period
	findings []domain.Finding
}

func (c *checker) add(sev domain.Severity, code, format string, args ...any) {
	c.findings = append(c.findings, domain.Finding{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Validate runs every rule and returns the findings ordered by severity,
// errors first. When nothing was raised a single OK finding is returned.
// result may be nil when the computation failed; only input rules run then.
func Validate(emp *domain.EmployeeProfile, items []domain.LineItem, result *domain.PayrollResult, src rates.Source, period Period) []domain.Finding {
	c := &checker{emp: emp, items: items, result: result, src: src, period: period}
	if emp == nil {
		c.add(domain.SeverityError, CodeNegativeInput, "no employee given")
		return c.findings
	}

	c.checkInputs()
	c.checkQST()
	if result != nil {
		c.checkNet()
		c.checkNBU()
		c.checkBVG()
		c.checkZeroContributions()
		c.checkCeilings()
	}
	c.checkMasterData()
	c.checkThirteenth()

	if len(c.findings) == 0 {
		return []domain.Finding{{Severity: domain.SeverityOK, Code: CodeOK, Message: "no findings"}}
	}
	sort.SliceStable(c.findings, func(i, j int) bool {
		return c.findings[i].Severity > c.findings[j].Severity
	})
	return c.findings
}

// HasBlocking reports whether any finding prevents saving the result
func HasBlocking(findings []domain.Finding) bool {
	return lo.SomeBy(findings, func(f domain.Finding) bool { return f.Blocking() })
}

// BySeverity returns the findings of one severity
func BySeverity(findings []domain.Finding, sev domain.Severity) []domain.Finding {
	return lo.Filter(findings, func(f domain.Finding, _ int) bool { return f.Severity == sev })
}

func itemAmount(li domain.LineItem) decimal.Decimal {
	qty := li.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return qty.Mul(li.UnitAmount)
}

func (c *checker) checkInputs() {
	p := c.period
	if p.HoursWorked.IsNegative() {
		c.add(domain.SeverityError, CodeNegativeInput, "hours worked are negative (%s)", p.HoursWorked)
	}
	if p.OvertimeHours.IsNegative() {
		c.add(domain.SeverityError, CodeNegativeInput, "overtime hours are negative (%s)", p.OvertimeHours)
	}
	if c.emp.OccupancyPercent.IsNegative() {
		c.add(domain.SeverityError, CodeNegativeInput, "occupancy %s%% is negative", c.emp.OccupancyPercent)
	} else if c.emp.OccupancyPercent.GreaterThan(decimal.NewFromInt(100)) {
		c.add(domain.SeverityWarning, CodeOccupancyImplausible, "occupancy %s%% exceeds 100%%", c.emp.OccupancyPercent)
	}
	if !c.emp.HireDate.IsZero() && !c.emp.TerminationDate.IsZero() && c.emp.TerminationDate.Before(c.emp.HireDate) {
		c.add(domain.SeverityError, CodeEmploymentDates, "termination %s is before hire %s",
			c.emp.TerminationDate.Format("2006-01-02"), c.emp.HireDate.Format("2006-01-02"))
	}
	for i, li := range c.items {
		if li.Category == domain.CategoryExpenses && itemAmount(li).IsNegative() {
			c.add(domain.SeverityError, CodeNegativeInput, "expense item %d (%s) is negative", i+1, li.Description)
		}
		if li.Quantity.IsNegative() {
			c.add(domain.SeverityError, CodeNegativeInput, "item %d (%s) has a negative quantity", i+1, li.Category)
		}
	}
	if c.emp.IsHourly() && p.HoursWorked.IsZero() {
		nonZero := lo.SomeBy(c.items, func(li domain.LineItem) bool {
			return !itemAmount(li).IsZero()
		})
		if nonZero {
			c.add(domain.SeverityError, CodeHourlyNoHours, "hourly employee has line items but no hours worked")
		}
	}
}

func (c *checker) checkQST() {
	q := c.emp.QST
	if !q.Liable || q.FixedAmount != nil || q.Percent != nil {
		return
	}
	code := q.EffectiveTariffCode()
	if code == "" {
		c.add(domain.SeverityError, CodeQSTNoRate, "liable for withholding tax but no tariff letter, fixed amount or percent")
		return
	}
	if c.src == nil {
		return
	}
	if _, err := c.src.QST(c.period.Year, code); err != nil {
		c.add(domain.SeverityError, CodeQSTNoRate, "no withholding tax rate for tariff %s in %d", code, c.period.Year)
	}
}

func (c *checker) checkNet() {
	if c.result.Net.IsNegative() {
		c.add(domain.SeverityError, CodeNetNegative, "net salary %s is negative", money.Format(c.result.Net))
	}
}

func (c *checker) uvgRates() (domain.UVGRates, bool) {
	if c.src == nil {
		return domain.UVGRates{}, false
	}
	r, err := c.src.UVG(c.period.Year)
	return r, err == nil
}

func (c *checker) checkNBU() {
	if !c.emp.IsUVGLiable() {
		return
	}
	r, ok := c.uvgRates()
	weekly := calculation.WeeklyHours(c.emp, c.period.HoursWorked)
	if calculation.NBULiable(weekly, r) {
		return
	}
	if c.result.UVG.Employee.IsPositive() {
		c.add(domain.SeverityWarning, CodeNBUBelowThreshold, "NBU of %s charged although weekly hours %s are below the threshold",
			money.Format(c.result.UVG.Employee), weekly.StringFixed(1))
		return
	}
	if ok && r.NBU.IsPositive() {
		c.add(domain.SeverityWarning, CodeNBUNotCharged, "no NBU charged: weekly hours %s are below the threshold", weekly.StringFixed(1))
	}
}

func (c *checker) checkBVG() {
	if c.result.BVG.IsZero() {
		if !c.emp.BVGExempt {
			annual := calculation.SumWhere(c.result.Items, func(r domain.Relevance) bool { return r.BVG }).Mul(decimal.NewFromInt(12))
			if annual.IsPositive() && c.src != nil {
				if r, err := c.src.BVG(c.period.Year); err == nil && annual.LessThan(r.EntryThreshold) {
					c.add(domain.SeverityInfo, CodeBVGBelowEntry, "annualised salary %s is below the BVG entry threshold %s",
						money.Format(annual), money.Format(r.EntryThreshold))
				}
			}
		}
		return
	}
	if c.emp.BVGExempt {
		c.add(domain.SeverityWarning, CodeBVGNotLiable, "BVG contributions present although the employee is exempt")
		return
	}
	if c.result.Bases.BVG.IsZero() {
		c.add(domain.SeverityWarning, CodeBVGNotLiable, "BVG contributions present without an insured salary")
	}
}

func (c *checker) checkZeroContributions() {
	res := c.result
	if c.src == nil {
		return
	}
	if r, err := c.src.AHV(c.period.Year); err == nil && res.Bases.AHV.IsPositive() && r.Employee.IsPositive() && res.AHV.Employee.IsZero() {
		c.add(domain.SeverityWarning, CodeZeroContribution, "AHV is zero although basis %s and rate %s are set", money.Format(res.Bases.AHV), r.Employee)
	}
	if r, err := c.src.ALV(c.period.Year); err == nil && res.Bases.ALV.IsPositive() && r.Employee.IsPositive() && res.ALV.Employee.IsZero() {
		c.add(domain.SeverityWarning, CodeZeroContribution, "ALV is zero although basis %s and rate %s are set", money.Format(res.Bases.ALV), r.Employee)
	}
	if r, ok := c.uvgRates(); ok && res.Bases.UVG.IsPositive() && r.BU.IsPositive() && res.UVG.Employer.IsZero() {
		c.add(domain.SeverityWarning, CodeZeroContribution, "BU is zero although basis %s and rate %s are set", money.Format(res.Bases.UVG), r.BU)
	}
	if r, err := c.src.KTG(); err == nil && res.Bases.KTG.IsPositive() && r.Employee.IsPositive() && res.KTG.Employee.IsZero() {
		c.add(domain.SeverityWarning, CodeZeroContribution, "KTG is zero although basis %s and rate %s are set", money.Format(res.Bases.KTG), r.Employee)
	}
}

func (c *checker) checkCeilings() {
	if c.emp.Retiree {
		return
	}
	res := c.result
	alvSum := calculation.SumWhere(res.Items, func(r domain.Relevance) bool { return r.ALV })
	if res.Bases.ALV.LessThan(alvSum) {
		c.add(domain.SeverityInfo, CodeCeilingReached, "ALV ceiling reached: %s of %s is contribution liable",
			money.Format(res.Bases.ALV), money.Format(alvSum))
	}
	if c.emp.IsUVGLiable() {
		uvgSum := calculation.SumWhere(res.Items, func(r domain.Relevance) bool { return r.UVG })
		if res.Bases.UVG.LessThan(uvgSum) {
			c.add(domain.SeverityInfo, CodeCeilingReached, "UVG ceiling reached: %s of %s is contribution liable",
				money.Format(res.Bases.UVG), money.Format(uvgSum))
		}
	}
}

func (c *checker) checkMasterData() {
	if c.emp.BirthDate.IsZero() {
		c.add(domain.SeverityWarning, CodeBirthDateMissing, "birth date of %s is missing", c.emp.Label())
	}
	allowances := c.emp.FamilyAllowances
	for i := 0; i < len(allowances); i++ {
		for j := i + 1; j < len(allowances); j++ {
			a, b := allowances[i], allowances[j]
			if a.Child == b.Child && a.Overlaps(b) {
				c.add(domain.SeverityWarning, CodeAllowanceOverlap, "family allowance periods for %s overlap", a.Child)
			}
		}
	}
}

func (c *checker) checkThirteenth() {
	if c.emp.IsHourly() || !c.emp.ThirteenthModel.Active() {
		return
	}
	for _, li := range c.items {
		if li.Category == domain.CategoryThirteenthSalary && !itemAmount(li).IsZero() {
			c.add(domain.SeverityWarning, CodeThirteenthNotDue, "manual 13th salary item although model %s pays it automatically", c.emp.ThirteenthModel)
			return
		}
	}
}
