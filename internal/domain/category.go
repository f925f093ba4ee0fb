package domain

import (
	"fmt"
	"strings"
)

// Category is the closed set of payroll line-item kinds. Each value carries
// a fixed relevance profile; flags never depend on the amount.
type Category int

const (
	CategoryMonthlySalary Category = iota
	CategoryHourlyWage
	CategoryVacationSupplement
	CategoryHolidaySupplement
	CategoryThirteenthAccrual
	CategoryThirteenthSalary
	CategoryOvertime
	CategoryBonus
	CategorySickPayBenefit
	CategoryFamilyAllowance
	CategoryExpenses
	CategoryPrivateShare
	CategoryDeduction
)

// PayoutKind says how an item reaches the net payout
type PayoutKind int

const (
	PayoutWage          PayoutKind = iota // part of gross pay
	PayoutReimbursement                   // paid on top of net, not wage
	PayoutNonCash                         // contribution basis only, never paid
	PayoutDeduction                       // subtracted from net
)

// Relevance lists the bases an item counts towards
type Relevance struct {
	Gross   bool
	AHV     bool
	ALV     bool
	BVG     bool
	UVG     bool
	QST     bool
	Taxable bool
	Payout  PayoutKind
}

type categoryInfo struct {
	name string
	rel  Relevance
}

var categories = [...]categoryInfo{
	CategoryMonthlySalary:      {"monthly_salary", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryHourlyWage:         {"hourly_wage", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryVacationSupplement: {"vacation_supplement", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryHolidaySupplement:  {"holiday_supplement", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryThirteenthAccrual:  {"thirteenth_accrual", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryThirteenthSalary:   {"thirteenth_salary", Relevance{true, true, true, true, true, true, true, PayoutWage}},
	CategoryOvertime:           {"overtime", Relevance{true, true, true, false, true, true, true, PayoutWage}},
	CategoryBonus:              {"bonus", Relevance{true, true, true, false, true, true, true, PayoutWage}},
	CategorySickPayBenefit:     {"sick_pay_benefit", Relevance{true, false, false, false, false, true, true, PayoutWage}},
	CategoryFamilyAllowance:    {"family_allowance", Relevance{false, false, false, false, false, true, true, PayoutReimbursement}},
	CategoryExpenses:           {"expenses", Relevance{false, false, false, false, false, false, false, PayoutReimbursement}},
	CategoryPrivateShare:       {"private_share", Relevance{false, true, true, false, true, true, true, PayoutNonCash}},
	CategoryDeduction:          {"deduction", Relevance{false, false, false, false, false, false, false, PayoutDeduction}},
}

// Categories returns every defined category in declaration order
func Categories() []Category {
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is a defined category
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categories)
}

// Relevance returns the fixed relevance profile of the category
func (c Category) Relevance() Relevance {
	if !c.Valid() {
		return Relevance{Payout: PayoutNonCash}
	}
	return categories[c].rel
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categories[c].name
}

// ParseCategory resolves a category name as written in case files
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range categories {
		if info.name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown line item category %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
