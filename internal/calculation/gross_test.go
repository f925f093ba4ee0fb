package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveMonthly(t *testing.T) {
	emp := monthlyEmployee("6000")
	assert.True(t, dec("6000").Equal(EffectiveMonthly(emp)))

	emp.OccupancyPercent = dec("80")
	assert.True(t, dec("4800").Equal(EffectiveMonthly(emp)))

	emp.SalaryIsEffective = true
	assert.True(t, dec("6000").Equal(EffectiveMonthly(emp)), "already effective salaries are not scaled")
}

func TestProrate(t *testing.T) {
	full := dec("6000")

	tests := []struct {
		name     string
		hire     time.Time
		leave    time.Time
		expected string
	}{
		{"employed all month", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}, "6000"},
		{"long employment ending later", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), "6000"},
		// 17-31 March 2025 has 11 working days
		{"hired mid-month", time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), time.Time{}, "3035.88"},
		// 1-14 March 2025 has 10 working days
		{"left mid-month", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), "2759.89"},
		// hired on the 1st still pro-rates: March 2025 has 21 working days
		{"hired on the first", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{}, "5795.77"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := monthlyEmployee("6000")
			emp.HireDate = tt.hire
			emp.TerminationDate = tt.leave
			got := Prorate(full, emp, 2025, time.March).Round(2)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestProrate_RatioCapped(t *testing.T) {
	emp := monthlyEmployee("6000")
	// July 2025 has 23 working days, more than the 21.74 average
	emp.HireDate = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	got := Prorate(dec("6000"), emp, 2025, time.July)
	assert.True(t, dec("6000").Equal(got), "got %s", got)
}

func TestVacationPercent(t *testing.T) {
	tests := []struct {
		weeks    int
		expected string
	}{
		{0, "8.33"},
		{4, "8.33"},
		{5, "10.64"},
		{6, "13.04"},
		{12, "30.00"},
		{52, "30.00"},
		{60, "30.00"},
	}
	for _, tt := range tests {
		emp := &domain.EmployeeProfile{VacationWeeks: tt.weeks}
		assert.Equal(t, tt.expected, VacationPercent(emp).StringFixed(2), "weeks %d", tt.weeks)
	}

	override := dec("9.5")
	emp := &domain.EmployeeProfile{VacationWeeks: 6, VacationPercentOverride: &override}
	assert.True(t, override.Equal(VacationPercent(emp)))
}

func TestThirteenthShare(t *testing.T) {
	half := dec("0.5")
	one := decimal.NewFromInt(1)

	assert.True(t, ThirteenthShare(domain.ThirteenthNone, time.December).IsZero())
	assert.True(t, one.Equal(ThirteenthShare(domain.ThirteenthNovember, time.November)))
	assert.True(t, ThirteenthShare(domain.ThirteenthNovember, time.December).IsZero())
	assert.True(t, one.Equal(ThirteenthShare(domain.ThirteenthDecember, time.December)))
	assert.True(t, half.Equal(ThirteenthShare(domain.ThirteenthJuneNovember, time.June)))
	assert.True(t, ThirteenthShare(domain.ThirteenthJuneNovember, time.March).IsZero())
}

func TestOvertime(t *testing.T) {
	emp := monthlyEmployee("6000")
	policy := domain.DefaultOvertimePolicy()

	lines := SalaryLines(emp, 2025, time.March, decimal.Zero, dec("10"), policy)
	var overtime *domain.LineItem
	for i := range lines {
		if lines[i].Category == domain.CategoryOvertime {
			overtime = &lines[i]
		}
	}
	if assert.NotNil(t, overtime) {
		// 6000 / 21.74 / 8.4 × 1.25 × 10 = 410.70...
		assert.Equal(t, "410.70", overtime.Amount.StringFixed(2))
		assert.True(t, overtime.Generated)
	}

	hourly := &domain.EmployeeProfile{SalaryModel: domain.SalaryHourly, HourlyRate: dec("40")}
	assert.True(t, dec("50").Equal(OvertimeRate(hourly, policy)))
}
