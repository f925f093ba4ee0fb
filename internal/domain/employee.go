package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryModel selects how the monthly base salary is derived
type SalaryModel string

const (
	SalaryMonthly SalaryModel = "monthly"
	SalaryHourly  SalaryModel = "hourly"
)

// MaxVacationWeeks bounds the vacation entitlement accepted for hourly pay
const MaxVacationWeeks = 12

// ThirteenthModel describes when a 13th monthly salary is disbursed
type ThirteenthModel string

const (
	ThirteenthNone         ThirteenthModel = "none"
	ThirteenthNovember     ThirteenthModel = "nov_100"
	ThirteenthDecember     ThirteenthModel = "dec_100"
	ThirteenthJuneNovember ThirteenthModel = "jun_nov_50"
)

// Valid reports whether the model is one of the known disbursement models.
// The empty string is treated as ThirteenthNone.
func (m ThirteenthModel) Valid() bool {
	switch m {
	case "", ThirteenthNone, ThirteenthNovember, ThirteenthDecember, ThirteenthJuneNovember:
		return true
	}
	return false
}

// Active reports whether any 13th salary is agreed
func (m ThirteenthModel) Active() bool {
	return m != "" && m != ThirteenthNone
}

// Employer carries the registration data the engine needs from the employer
type Employer struct {
	Name   string `yaml:"name" json:"name"`
	Canton string `yaml:"canton" json:"canton"` // registered work canton, e.g. ZH
}

// QSTProfile holds the withholding-tax attributes of an employee
type QSTProfile struct {
	Liable      bool             `yaml:"liable" json:"liable"`
	Letter      string           `yaml:"letter,omitempty" json:"letter,omitempty"` // A, B, C or H
	Children    int              `yaml:"children,omitempty" json:"children,omitempty"`
	ChurchTax   bool             `yaml:"church_tax,omitempty" json:"church_tax,omitempty"`
	FixedAmount *decimal.Decimal `yaml:"fixed_amount,omitempty" json:"fixed_amount,omitempty"`
	Percent     *decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty"` // e.g. 4.5 for 4.5%
}

// EffectiveTariffCode assembles the lookup key from marital letter, child count
// and church-tax indicator, e.g. "B2Y".
func (q QSTProfile) EffectiveTariffCode() string {
	if q.Letter == "" {
		return ""
	}
	church := "N"
	if q.ChurchTax {
		church = "Y"
	}
	return strings.ToUpper(q.Letter) + strconv.Itoa(q.Children) + church
}

// AllowanceEntitlement is one family-allowance entitlement period for a child
type AllowanceEntitlement struct {
	Child string    `yaml:"child" json:"child"`
	From  time.Time `yaml:"from" json:"from"`
	To    time.Time `yaml:"to,omitempty" json:"to,omitempty"` // zero means open ended
}

// Overlaps reports whether two entitlement periods share at least one day
func (a AllowanceEntitlement) Overlaps(b AllowanceEntitlement) bool {
	aEnd, bEnd := a.To, b.To
	if aEnd.IsZero() {
		aEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	if bEnd.IsZero() {
		bEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return !a.From.After(bEnd) && !b.From.After(aEnd)
}

// EmployeeProfile is the employee master data consumed by the engine
type EmployeeProfile struct {
	ID              string    `yaml:"id" json:"id"`
	Name            string    `yaml:"name" json:"name"`
	BirthDate       time.Time `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	HireDate        time.Time `yaml:"hire_date,omitempty" json:"hire_date,omitempty"`
	TerminationDate time.Time `yaml:"termination_date,omitempty" json:"termination_date,omitempty"`

	SalaryModel       SalaryModel     `yaml:"salary_model" json:"salary_model"`
	ContractSalary    decimal.Decimal `yaml:"contract_salary" json:"contract_salary"` // full-time monthly salary
	SalaryIsEffective bool            `yaml:"salary_is_effective,omitempty" json:"salary_is_effective,omitempty"`
	OccupancyPercent  decimal.Decimal `yaml:"occupancy_percent" json:"occupancy_percent"`
	HourlyRate        decimal.Decimal `yaml:"hourly_rate,omitempty" json:"hourly_rate,omitempty"`

	VacationWeeks           int              `yaml:"vacation_weeks,omitempty" json:"vacation_weeks,omitempty"`
	VacationPercentOverride *decimal.Decimal `yaml:"vacation_percent_override,omitempty" json:"vacation_percent_override,omitempty"`
	HolidayPercent          decimal.Decimal  `yaml:"holiday_percent,omitempty" json:"holiday_percent,omitempty"`
	ThirteenthModel         ThirteenthModel  `yaml:"thirteenth_model,omitempty" json:"thirteenth_model,omitempty"`

	Retiree                bool `yaml:"retiree,omitempty" json:"retiree,omitempty"`
	RetireeDeductionWaived bool `yaml:"retiree_deduction_waived,omitempty" json:"retiree_deduction_waived,omitempty"`
	UVGExempt              bool `yaml:"uvg_exempt,omitempty" json:"uvg_exempt,omitempty"`
	BVGExempt              bool `yaml:"bvg_exempt,omitempty" json:"bvg_exempt,omitempty"`

	QST              QSTProfile             `yaml:"qst" json:"qst"`
	FamilyAllowances []AllowanceEntitlement `yaml:"family_allowances,omitempty" json:"family_allowances,omitempty"`

	YTD Accumulators `yaml:"ytd" json:"ytd"`
}

// IsHourly reports whether the employee is paid by the hour
func (e *EmployeeProfile) IsHourly() bool {
	return e.SalaryModel == SalaryHourly
}

// IsUVGLiable reports whether accident insurance applies
func (e *EmployeeProfile) IsUVGLiable() bool {
	return !e.UVGExempt
}

// WeeklyHours derives contractual weekly hours from the occupancy percentage
// and the 42h reference week.
func (e *EmployeeProfile) WeeklyHours(standardWeek decimal.Decimal) decimal.Decimal {
	return standardWeek.Mul(e.OccupancyPercent).Div(decimal.NewFromInt(100))
}

// Label returns a short identifier for logs and errors
func (e *EmployeeProfile) Label() string {
	if e.Name == "" {
		return e.ID
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.ID)
}
