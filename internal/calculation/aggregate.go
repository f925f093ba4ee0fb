package calculation

import (
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Sums are the uncapped per-basis totals of a period's items
type Sums struct {
	Gross          decimal.Decimal
	AHV            decimal.Decimal
	ALV            decimal.Decimal
	BVG            decimal.Decimal
	UVG            decimal.Decimal
	QST            decimal.Decimal
	Wages          decimal.Decimal
	Reimbursements decimal.Decimal
	Deductions     decimal.Decimal
}

// SumWhere adds the amounts of the items whose relevance matches pred
func SumWhere(items []domain.LineItem, pred func(domain.Relevance) bool) decimal.Decimal {
	matching := lo.Filter(items, func(li domain.LineItem, _ int) bool {
		return pred(li.Relevance())
	})
	return lo.Reduce(matching, func(acc decimal.Decimal, li domain.LineItem, _ int) decimal.Decimal {
		return acc.Add(li.Amount)
	}, decimal.Zero)
}

// Aggregate builds every basis from the relevance flags of the items.
// Categories are never inspected directly.
func Aggregate(items []domain.LineItem) Sums {
	return Sums{
		Gross: SumWhere(items, func(r domain.Relevance) bool { return r.Gross }),
		AHV:   SumWhere(items, func(r domain.Relevance) bool { return r.AHV }),
		ALV:   SumWhere(items, func(r domain.Relevance) bool { return r.ALV }),
		BVG:   SumWhere(items, func(r domain.Relevance) bool { return r.BVG }),
		UVG:   SumWhere(items, func(r domain.Relevance) bool { return r.UVG }),
		QST:   SumWhere(items, func(r domain.Relevance) bool { return r.QST }),
		Wages: SumWhere(items, func(r domain.Relevance) bool { return r.Payout == domain.PayoutWage }),
		Reimbursements: SumWhere(items, func(r domain.Relevance) bool {
			return r.Payout == domain.PayoutReimbursement
		}),
		Deductions: SumWhere(items, func(r domain.Relevance) bool { return r.Payout == domain.PayoutDeduction }),
	}
}
