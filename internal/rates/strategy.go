package rates

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/shopspring/decimal"
)

// LookupStrategy is one step of the rate fallback chain
type LookupStrategy interface {
	Name() string
	Lookup(t *Table, q Key) (any, bool)
}

// ExactYearCanton looks up the record for exactly the requested year and canton
type ExactYearCanton struct{}

func (ExactYearCanton) Name() string { return "exact" }

func (ExactYearCanton) Lookup(t *Table, q Key) (any, bool) {
	return t.Get(q)
}

// YearDefaultCanton looks up the record of the requested year stored under the
// DEFAULT canton. It only applies to canton-scoped schemes.
type YearDefaultCanton struct{}

func (YearDefaultCanton) Name() string { return "default-canton" }

func (YearDefaultCanton) Lookup(t *Table, q Key) (any, bool) {
	if q.Canton == "" || q.Canton == DefaultCanton {
		return nil, false
	}
	q.Canton = DefaultCanton
	return t.Get(q)
}

// HardCoded returns the statutory default of the schemes that have one.
// UVG, KTG and QST are insurer or canton specific and never default.
type HardCoded struct{}

func (HardCoded) Name() string { return "hard-coded" }

func (HardCoded) Lookup(_ *Table, q Key) (any, bool) {
	switch q.Scheme {
	case SchemeAHV:
		r := DefaultAHV
		r.Year = q.Year
		return r, true
	case SchemeALV:
		r := DefaultALV
		r.Year = q.Year
		return r, true
	case SchemeBVG:
		r := DefaultBVG
		r.Year = q.Year
		return r, true
	case SchemeFAK:
		r := DefaultFAK
		r.Year, r.Canton = q.Year, q.Canton
		return r, true
	case SchemeVK:
		r := DefaultVK
		r.Year = q.Year
		return r, true
	}
	return nil, false
}

// DefaultStrategies is the fallback order: exact year and canton, then the
// year's DEFAULT canton, then the statutory constant. A different year's
// record is never used.
func DefaultStrategies() []LookupStrategy {
	return []LookupStrategy{ExactYearCanton{}, YearDefaultCanton{}, HardCoded{}}
}

// Statutory defaults
var (
	DefaultAHV = domain.AHVRates{
		Employer:         decimal.RequireFromString("0.053"),
		Employee:         decimal.RequireFromString("0.053"),
		RetireeAllowance: decimal.NewFromInt(1400),
	}
	DefaultALV = domain.ALVRates{
		Employer: decimal.RequireFromString("0.011"),
		Employee: decimal.RequireFromString("0.011"),
		Ceiling:  decimal.NewFromInt(148200),
	}
	DefaultBVG = domain.BVGRates{
		Employer:              decimal.RequireFromString("0.035"),
		Employee:              decimal.RequireFromString("0.035"),
		EntryThreshold:        decimal.NewFromInt(22680),
		CoordinationDeduction: decimal.NewFromInt(26460),
		MinInsured:            decimal.NewFromInt(3780),
		MaxInsured:            decimal.NewFromInt(90720),
	}
	DefaultFAK = domain.FAKRate{
		Rate: decimal.RequireFromString("0.01"),
	}
	DefaultVK = domain.VKRate{
		Rate: decimal.RequireFromString("0.03"),
	}
)
