package validation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/lohn/internal/calculation"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testResolver(t *testing.T) *rates.Resolver {
	t.Helper()
	table, err := rates.NewTableFromFile(&domain.RateFile{
		UVG: []domain.UVGRates{{Year: 2025, BU: dec("0.001"), NBU: dec("0.012"), Ceiling: dec("148200"), NBUMinWeeklyHr: dec("8")}},
		KTG: &domain.KTGRates{Employer: dec("0.005"), Employee: dec("0.005")},
		QST: []domain.QSTTariff{{Year: 2025, Code: "A0N", Rate: dec("0.08")}},
	})
	require.NoError(t, err)
	return rates.NewResolver(table)
}

func employee() *domain.EmployeeProfile {
	return &domain.EmployeeProfile{
		ID:               "E1",
		Name:             "Anna Muster",
		BirthDate:        time.Date(1985, 4, 2, 0, 0, 0, 0, time.UTC),
		SalaryModel:      domain.SalaryMonthly,
		ContractSalary:   dec("6000"),
		OccupancyPercent: dec("100"),
	}
}

func compute(t *testing.T, src *rates.Resolver, emp *domain.EmployeeProfile, p Period, items []domain.LineItem) *domain.PayrollResult {
	t.Helper()
	engine := calculation.NewEngine(src)
	res, err := engine.Compute(calculation.Input{
		Employee:      emp,
		Employer:      domain.Employer{Canton: "ZH"},
		Year:          p.Year,
		Month:         p.Month,
		HoursWorked:   p.HoursWorked,
		OvertimeHours: p.OvertimeHours,
		Items:         items,
	})
	require.NoError(t, err)
	return res
}

func codes(findings []domain.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	p := Period{Year: 2025, Month: 3}

	findings := Validate(emp, nil, compute(t, src, emp, p, nil), src, p)

	require.Len(t, findings, 1)
	assert.Equal(t, domain.SeverityOK, findings[0].Severity)
	assert.False(t, HasBlocking(findings))
}

func TestValidate_DoesNotMutate(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	emp.BirthDate = time.Time{}
	p := Period{Year: 2025, Month: 3}
	res := compute(t, src, emp, p, nil)
	before := *res

	Validate(emp, nil, res, src, p)
	assert.Equal(t, before, *res)
}

func TestValidate_NBUBelowThreshold(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	emp.OccupancyPercent = dec("14.2857")
	p := Period{Year: 2025, Month: 3}
	res := compute(t, src, emp, p, nil)

	findings := Validate(emp, nil, res, src, p)
	assert.Contains(t, codes(findings), CodeNBUNotCharged)
	assert.False(t, HasBlocking(findings))

	// a result that charges NBU anyway is flagged differently
	res.UVG.Employee = dec("10.25")
	findings = Validate(emp, nil, res, src, p)
	assert.Contains(t, codes(findings), CodeNBUBelowThreshold)
}

func TestValidate_HardErrors(t *testing.T) {
	src := testResolver(t)

	tests := []struct {
		name   string
		mutate func(emp *domain.EmployeeProfile)
		period Period
		items  []domain.LineItem
		result func(res *domain.PayrollResult)
		code   string
	}{
		{
			name:   "QST liable without rate",
			mutate: func(emp *domain.EmployeeProfile) { emp.QST = domain.QSTProfile{Liable: true, Letter: "C", Children: 1} },
			code:   CodeQSTNoRate,
		},
		{
			name:   "QST liable without tariff letter",
			mutate: func(emp *domain.EmployeeProfile) { emp.QST = domain.QSTProfile{Liable: true} },
			code:   CodeQSTNoRate,
		},
		{
			name:   "negative net",
			result: func(res *domain.PayrollResult) { res.Net = dec("-1") },
			code:   CodeNetNegative,
		},
		{
			name: "hourly without hours",
			mutate: func(emp *domain.EmployeeProfile) {
				emp.SalaryModel = domain.SalaryHourly
				emp.HourlyRate = dec("30")
			},
			items: []domain.LineItem{{Category: domain.CategoryBonus, UnitAmount: dec("200")}},
			code:  CodeHourlyNoHours,
		},
		{
			name: "hourly without hours, expenses only",
			mutate: func(emp *domain.EmployeeProfile) {
				emp.SalaryModel = domain.SalaryHourly
				emp.HourlyRate = dec("30")
			},
			items: []domain.LineItem{{Category: domain.CategoryExpenses, Quantity: dec("1"), UnitAmount: dec("45.50")}},
			code:  CodeHourlyNoHours,
		},
		{
			name: "hourly without hours, private share only",
			mutate: func(emp *domain.EmployeeProfile) {
				emp.SalaryModel = domain.SalaryHourly
				emp.HourlyRate = dec("30")
			},
			items: []domain.LineItem{{Category: domain.CategoryPrivateShare, UnitAmount: dec("270")}},
			code:  CodeHourlyNoHours,
		},
		{
			name:  "negative expenses",
			items: []domain.LineItem{{Category: domain.CategoryExpenses, Quantity: dec("1"), UnitAmount: dec("-20")}},
			code:  CodeNegativeInput,
		},
		{
			name:   "negative hours",
			period: Period{HoursWorked: dec("-3")},
			code:   CodeNegativeInput,
		},
		{
			name: "termination before hire",
			mutate: func(emp *domain.EmployeeProfile) {
				emp.HireDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
				emp.TerminationDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
			},
			code: CodeEmploymentDates,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := employee()
			if tt.mutate != nil {
				tt.mutate(emp)
			}
			p := tt.period
			p.Year, p.Month = 2025, 3
			res := &domain.PayrollResult{Year: 2025, Month: 3, Net: dec("100")}
			if tt.result != nil {
				tt.result(res)
			}

			findings := Validate(emp, tt.items, res, src, p)
			assert.True(t, HasBlocking(findings))
			assert.Equal(t, domain.SeverityError, findings[0].Severity, "errors come first")
			assert.Contains(t, codes(BySeverity(findings, domain.SeverityError)), tt.code)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	src := testResolver(t)
	p := Period{Year: 2025, Month: 3}

	emp := employee()
	emp.BirthDate = time.Time{}
	emp.FamilyAllowances = []domain.AllowanceEntitlement{
		{Child: "Lea", From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{Child: "Lea", From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Child: "Tim", From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	res := compute(t, src, emp, p, nil)
	res.BVG = domain.Contribution{Employer: dec("10"), Employee: dec("10")}
	emp.BVGExempt = true

	findings := Validate(emp, nil, res, src, p)
	got := codes(findings)
	assert.Contains(t, got, CodeBirthDateMissing)
	assert.Contains(t, got, CodeAllowanceOverlap)
	assert.Contains(t, got, CodeBVGNotLiable)
	assert.Len(t, BySeverity(findings, domain.SeverityWarning), 3)
	assert.False(t, HasBlocking(findings))
}

func TestValidate_ZeroContribution(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	p := Period{Year: 2025, Month: 3}
	res := compute(t, src, emp, p, nil)
	res.AHV = domain.Contribution{Employer: decimal.Zero, Employee: decimal.Zero}

	findings := Validate(emp, nil, res, src, p)
	assert.Contains(t, codes(findings), CodeZeroContribution)
	assert.False(t, HasBlocking(findings))
}

func TestValidate_CeilingInfo(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	emp.ContractSalary = dec("20000")
	p := Period{Year: 2025, Month: 8}

	engine := calculation.NewEngine(src)
	res, err := engine.Compute(calculation.Input{
		Employee: emp,
		Employer: domain.Employer{Canton: "ZH"},
		Year:     2025,
		Month:    8,
		PriorYTD: domain.Accumulators{Year: 2025, ALVBasis: dec("140000"), UVGBasis: dec("140000")},
	})
	require.NoError(t, err)

	findings := Validate(emp, nil, res, src, p)
	info := BySeverity(findings, domain.SeverityInfo)
	assert.Len(t, info, 2)
	assert.Equal(t, CodeCeilingReached, info[0].Code)
}

func TestValidate_NilResult(t *testing.T) {
	src := testResolver(t)
	emp := employee()
	emp.QST = domain.QSTProfile{Liable: true, Letter: "B", Children: 2, ChurchTax: true}

	findings := Validate(emp, nil, nil, src, Period{Year: 2025, Month: 1})
	assert.True(t, HasBlocking(findings))
	assert.Equal(t, CodeQSTNoRate, findings[0].Code)
}
