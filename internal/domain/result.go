package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a payroll result
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReviewed  Status = "reviewed"
	StatusFinalized Status = "finalized"
	StatusLocked    Status = "locked"
)

// Frozen reports whether the result's figures may no longer change
func (s Status) Frozen() bool {
	return s == StatusFinalized || s == StatusLocked
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReviewed, StatusFinalized, StatusLocked:
		return true
	}
	return false
}

// Contribution is the employer and employee share of one scheme
type Contribution struct {
	Employer decimal.Decimal `json:"employer"`
	Employee decimal.Decimal `json:"employee"`
}

// Total returns employer + employee
func (c Contribution) Total() decimal.Decimal {
	return c.Employer.Add(c.Employee)
}

// IsZero reports whether both shares are zero
func (c Contribution) IsZero() bool {
	return c.Employer.IsZero() && c.Employee.IsZero()
}

// Bases are the per-scheme contribution bases of one month, after capping
type Bases struct {
	Gross decimal.Decimal `json:"gross"`
	AHV   decimal.Decimal `json:"ahv"`
	ALV   decimal.Decimal `json:"alv"`
	UVG   decimal.Decimal `json:"uvg"`
	KTG   decimal.Decimal `json:"ktg"`
	BVG   decimal.Decimal `json:"bvg"` // monthly insurable salary
	QST   decimal.Decimal `json:"qst"`
}

// PayrollResult is the computed payroll of one employee for one month.
// UVG holds BU as the employer share and NBU as the employee share.
type PayrollResult struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Status     Status `json:"status"`

	Items []LineItem `json:"items"`
	Bases Bases      `json:"bases"`

	AHV Contribution `json:"ahv"`
	ALV Contribution `json:"alv"`
	UVG Contribution `json:"uvg"`
	KTG Contribution `json:"ktg"`
	BVG Contribution `json:"bvg"`
	QST Contribution `json:"qst"`
	FAK Contribution `json:"fak"`
	VK  Contribution `json:"vk"`

	EmployeeDeductions decimal.Decimal `json:"employee_deductions"`
	Reimbursements     decimal.Decimal `json:"reimbursements"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	Net                decimal.Decimal `json:"net"`

	PriorYTD   Accumulators `json:"prior_ytd"` // accumulators the result was computed against
	YTD        YTDDelta     `json:"ytd_delta"`
	YTDApplied bool         `json:"ytd_applied"`
	ComputedAt time.Time    `json:"computed_at"`
}

// Key identifies the (employee, month, year) a result belongs to
func (r *PayrollResult) Key() ResultKey {
	return ResultKey{EmployeeID: r.EmployeeID, Year: r.Year, Month: r.Month}
}

// EmployerCost sums every employer share
func (r *PayrollResult) EmployerCost() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Contributions() {
		total = total.Add(c.Contribution.Employer)
	}
	return total
}

// NamedContribution pairs a scheme name with its contribution
type NamedContribution struct {
	Scheme       string
	Contribution Contribution
}

// Contributions lists the scheme contributions in calculation order
func (r *PayrollResult) Contributions() []NamedContribution {
	return []NamedContribution{
		{"AHV", r.AHV},
		{"ALV", r.ALV},
		{"UVG", r.UVG},
		{"KTG", r.KTG},
		{"BVG", r.BVG},
		{"QST", r.QST},
		{"FAK", r.FAK},
		{"VK", r.VK},
	}
}

// ResultKey is the uniqueness key of a payroll result
type ResultKey struct {
	EmployeeID string
	Year       int
	Month      int
}

func (k ResultKey) String() string {
	return fmt.Sprintf("%s/%04d-%02d", k.EmployeeID, k.Year, k.Month)
}
