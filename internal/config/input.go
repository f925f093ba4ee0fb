package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of case and rate files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadCase loads a payroll case from a YAML file
func (ip *InputParser) LoadCase(filename string) (*domain.Case, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseCase(data)
}

// ParseCase parses and validates case YAML
func (ip *InputParser) ParseCase(data []byte) (*domain.Case, error) {
	var c domain.Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateCase(&c); err != nil {
		return nil, fmt.Errorf("case validation failed: %w", err)
	}
	return &c, nil
}

// ValidateCase checks the structure of a case. Implausible but well-formed
// values (negative hours, reversed dates) are left to the plausibility checks.
func (ip *InputParser) ValidateCase(c *domain.Case) error {
	if c.Employer.Canton == "" {
		return fmt.Errorf("employer canton is required")
	}
	if err := ip.validateEmployee(&c.Employee); err != nil {
		return fmt.Errorf("employee %s: %w", c.Employee.Label(), err)
	}
	if c.Overtime != nil {
		if !c.Overtime.Premium.IsPositive() || !c.Overtime.HoursPerDay.IsPositive() {
			return fmt.Errorf("overtime premium and hours_per_day must be positive")
		}
	}
	seen := make(map[[2]int]bool)
	for i, p := range c.Periods {
		if p.Month < 1 || p.Month > 12 {
			return fmt.Errorf("period %d: month %d out of range", i+1, p.Month)
		}
		if p.Year < 1900 {
			return fmt.Errorf("period %d: year %d out of range", i+1, p.Year)
		}
		k := [2]int{p.Year, p.Month}
		if seen[k] {
			return fmt.Errorf("period %d: %04d-%02d listed twice", i+1, p.Year, p.Month)
		}
		seen[k] = true
	}
	return nil
}

func (ip *InputParser) validateEmployee(e *domain.EmployeeProfile) error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	switch e.SalaryModel {
	case domain.SalaryMonthly:
		if !e.ContractSalary.IsPositive() {
			return fmt.Errorf("contract_salary must be positive for monthly salaries")
		}
		if !e.SalaryIsEffective && !e.OccupancyPercent.IsPositive() {
			return fmt.Errorf("occupancy_percent must be positive unless the salary is already effective")
		}
	case domain.SalaryHourly:
		if !e.HourlyRate.IsPositive() {
			return fmt.Errorf("hourly_rate must be positive for hourly wages")
		}
	default:
		return fmt.Errorf("salary_model must be %q or %q, got %q", domain.SalaryMonthly, domain.SalaryHourly, e.SalaryModel)
	}
	if !e.ThirteenthModel.Valid() {
		return fmt.Errorf("unknown thirteenth_model %q", e.ThirteenthModel)
	}
	if e.VacationWeeks < 0 || e.VacationWeeks > domain.MaxVacationWeeks {
		return fmt.Errorf("vacation_weeks must be between 0 and %d, got %d", domain.MaxVacationWeeks, e.VacationWeeks)
	}
	if q := e.QST; q.Liable && q.FixedAmount == nil && q.Percent == nil {
		switch q.Letter {
		case "A", "B", "C", "H", "a", "b", "c", "h", "":
		default:
			return fmt.Errorf("qst letter must be one of A, B, C, H, got %q", q.Letter)
		}
		if q.Children < 0 {
			return fmt.Errorf("qst children cannot be negative")
		}
	}
	return nil
}

// LoadRates loads a rate file from YAML
func (ip *InputParser) LoadRates(filename string) (*domain.RateFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file %s: %w", filename, err)
	}
	return ip.ParseRates(data)
}

// ParseRates parses and validates rate YAML
func (ip *InputParser) ParseRates(data []byte) (*domain.RateFile, error) {
	var f domain.RateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rates YAML: %w", err)
	}
	if err := ip.ValidateRates(&f); err != nil {
		return nil, fmt.Errorf("rates validation failed: %w", err)
	}
	return &f, nil
}

// LoadRateTable loads a rate file and indexes it. An empty filename yields
// an empty table, leaving only the statutory defaults.
func (ip *InputParser) LoadRateTable(filename string) (*rates.Table, error) {
	if filename == "" {
		return rates.NewTable(), nil
	}
	f, err := ip.LoadRates(filename)
	if err != nil {
		return nil, err
	}
	return rates.NewTableFromFile(f)
}

var one = decimal.NewFromInt(1)

func checkRate(name string, year int, r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThan(one) {
		return fmt.Errorf("%s %d: rate %s must be a fraction between 0 and 1", name, year, r)
	}
	return nil
}

// ValidateRates checks value ranges of every record. Duplicates are
// detected when the table is built.
func (ip *InputParser) ValidateRates(f *domain.RateFile) error {
	var errs []error
	for _, r := range f.AHV {
		errs = append(errs, checkRate("ahv employer", r.Year, r.Employer), checkRate("ahv employee", r.Year, r.Employee))
	}
	for _, r := range f.ALV {
		errs = append(errs, checkRate("alv employer", r.Year, r.Employer), checkRate("alv employee", r.Year, r.Employee))
		if !r.Ceiling.IsPositive() {
			errs = append(errs, fmt.Errorf("alv %d: ceiling must be positive", r.Year))
		}
	}
	for _, r := range f.UVG {
		errs = append(errs, checkRate("uvg bu", r.Year, r.BU), checkRate("uvg nbu", r.Year, r.NBU))
		if !r.Ceiling.IsPositive() {
			errs = append(errs, fmt.Errorf("uvg %d: ceiling must be positive", r.Year))
		}
	}
	if f.KTG != nil {
		errs = append(errs, checkRate("ktg employer", 0, f.KTG.Employer), checkRate("ktg employee", 0, f.KTG.Employee))
	}
	for _, r := range f.BVG {
		errs = append(errs, checkRate("bvg employer", r.Year, r.Employer), checkRate("bvg employee", r.Year, r.Employee))
		if r.MinInsured.GreaterThan(r.MaxInsured) {
			errs = append(errs, fmt.Errorf("bvg %d: min_insured exceeds max_insured", r.Year))
		}
	}
	for _, r := range f.QST {
		if r.Code == "" {
			errs = append(errs, fmt.Errorf("qst %d: code is required", r.Year))
		}
		errs = append(errs, checkRate("qst "+r.Code, r.Year, r.Rate))
	}
	for _, r := range f.FAK {
		if r.Canton == "" {
			errs = append(errs, fmt.Errorf("fak %d: canton is required, use DEFAULT for the fallback", r.Year))
		}
		errs = append(errs, checkRate("fak "+r.Canton, r.Year, r.Rate))
	}
	for _, r := range f.VK {
		errs = append(errs, checkRate("vk", r.Year, r.Rate))
	}
	return errors.Join(errs...)
}
