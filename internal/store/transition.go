package store

import (
	"fmt"

	"github.com/rgehrsitz/lohn/internal/domain"
)

var transitions = map[domain.Status][]domain.Status{
	domain.StatusDraft:     {domain.StatusReviewed, domain.StatusFinalized},
	domain.StatusReviewed:  {domain.StatusDraft, domain.StatusFinalized},
	domain.StatusFinalized: {domain.StatusLocked, domain.StatusDraft},
	domain.StatusLocked:    {domain.StatusDraft},
}

// CanTransition reports whether from -> to is an allowed status change
func CanTransition(from, to domain.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves res to status to and returns the updated
// accumulators. Entering finalized applies the result's YTD delta once;
// leaving a frozen status for draft reverts it. The accumulators are reset
// first when they belong to an earlier year. A result whose PriorYTD no
// longer matches the stored totals cannot be finalized: its capped bases
// were derived from them. res is modified in place.
func ApplyTransition(res *domain.PayrollResult, acc domain.Accumulators, to domain.Status) (domain.Accumulators, error) {
	from := res.Status
	if !CanTransition(from, to) {
		return acc, fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, from, to, res.Key())
	}

	switch {
	case to == domain.StatusFinalized && !res.YTDApplied:
		if acc.Year > res.Year {
			return acc, fmt.Errorf("%w: accumulators already belong to %d, cannot finalize %s",
				ErrInvalidTransition, acc.Year, res.Key())
		}
		current := acc.ForYear(res.Year)
		if !current.SameTotals(res.PriorYTD) {
			return acc, fmt.Errorf("%w: %s (ALV basis so far %s, computed against %s)",
				ErrStaleResult, res.Key(), current.ALVBasis, res.PriorYTD.ALVBasis)
		}
		acc = current.Apply(res.YTD)
		res.YTDApplied = true
	case to == domain.StatusDraft && from.Frozen() && res.YTDApplied:
		if acc.Year == res.Year {
			acc = acc.Revert(res.YTD)
		}
		res.YTDApplied = false
	}
	res.Status = to
	return acc, nil
}
