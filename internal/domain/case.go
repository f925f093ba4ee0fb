package domain

import (
	"github.com/shopspring/decimal"
)

// Case is the content of a payroll case file: one employer, one employee and
// the periods to compute.
type Case struct {
	Employer Employer        `yaml:"employer" json:"employer"`
	Employee EmployeeProfile `yaml:"employee" json:"employee"`
	Overtime *OvertimePolicy `yaml:"overtime,omitempty" json:"overtime,omitempty"`
	Periods  []PeriodInput   `yaml:"periods" json:"periods"`
}

// PeriodInput holds the per-month inputs that are not line items
type PeriodInput struct {
	Year          int             `yaml:"year" json:"year"`
	Month         int             `yaml:"month" json:"month"`
	HoursWorked   decimal.Decimal `yaml:"hours_worked,omitempty" json:"hours_worked,omitempty"`
	OvertimeHours decimal.Decimal `yaml:"overtime_hours,omitempty" json:"overtime_hours,omitempty"`
	Items         []LineItem      `yaml:"items,omitempty" json:"items,omitempty"`
}

// OvertimePolicy configures the overtime supplement (Art. 321c OR)
type OvertimePolicy struct {
	Premium     decimal.Decimal `yaml:"premium" json:"premium"`             // 1.25 = 25% supplement
	HoursPerDay decimal.Decimal `yaml:"hours_per_day" json:"hours_per_day"` // used to turn a daily into an hourly rate
}

// DefaultOvertimePolicy returns the statutory 25% supplement on a 42h week
func DefaultOvertimePolicy() OvertimePolicy {
	return OvertimePolicy{
		Premium:     decimal.RequireFromString("1.25"),
		HoursPerDay: decimal.RequireFromString("8.4"),
	}
}
