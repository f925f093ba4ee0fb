package domain

import (
	"github.com/shopspring/decimal"
)

// Accumulators are the per-employee running annual totals used for ceilings.
// Year tags the calendar year the values belong to.
type Accumulators struct {
	Year       int             `yaml:"year" json:"year"`
	ALVBasis   decimal.Decimal `yaml:"alv_basis" json:"alv_basis"`
	UVGBasis   decimal.Decimal `yaml:"uvg_basis" json:"uvg_basis"`
	BVGBasis   decimal.Decimal `yaml:"bvg_basis" json:"bvg_basis"`
	BVGInsured decimal.Decimal `yaml:"bvg_insured" json:"bvg_insured"`
}

// YTDDelta is what one finalized payroll result contributes to the accumulators
type YTDDelta struct {
	ALVBasis   decimal.Decimal `json:"alv_basis"`
	UVGBasis   decimal.Decimal `json:"uvg_basis"`
	BVGBasis   decimal.Decimal `json:"bvg_basis"`
	BVGInsured decimal.Decimal `json:"bvg_insured"`
}

// IsZero reports whether all four running totals are zero
func (a Accumulators) IsZero() bool {
	return a.ALVBasis.IsZero() && a.UVGBasis.IsZero() && a.BVGBasis.IsZero() && a.BVGInsured.IsZero()
}

// ForYear returns the accumulators as they stand for the given year. Values
// tagged with another year are reset to zero; resetting an already-zero set
// only updates the tag, so calling ForYear repeatedly is harmless.
func (a Accumulators) ForYear(year int) Accumulators {
	if a.Year == year {
		return a
	}
	if a.IsZero() {
		a.Year = year
		return a
	}
	return Accumulators{
		Year:       year,
		ALVBasis:   decimal.Zero,
		UVGBasis:   decimal.Zero,
		BVGBasis:   decimal.Zero,
		BVGInsured: decimal.Zero,
	}
}

// SameTotals reports whether both sets hold the same four totals, ignoring
// the year tag
func (a Accumulators) SameTotals(b Accumulators) bool {
	return a.ALVBasis.Equal(b.ALVBasis) &&
		a.UVGBasis.Equal(b.UVGBasis) &&
		a.BVGBasis.Equal(b.BVGBasis) &&
		a.BVGInsured.Equal(b.BVGInsured)
}

// Apply adds a delta
func (a Accumulators) Apply(d YTDDelta) Accumulators {
	a.ALVBasis = a.ALVBasis.Add(d.ALVBasis)
	a.UVGBasis = a.UVGBasis.Add(d.UVGBasis)
	a.BVGBasis = a.BVGBasis.Add(d.BVGBasis)
	a.BVGInsured = a.BVGInsured.Add(d.BVGInsured)
	return a
}

// Revert subtracts a previously applied delta
func (a Accumulators) Revert(d YTDDelta) Accumulators {
	return a.Apply(YTDDelta{
		ALVBasis:   d.ALVBasis.Neg(),
		UVGBasis:   d.UVGBasis.Neg(),
		BVGBasis:   d.BVGBasis.Neg(),
		BVGInsured: d.BVGInsured.Neg(),
	})
}
