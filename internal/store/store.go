// Package store persists payroll results and the per-employee YTD
// accumulators. Every status change that touches the accumulators runs
// under a per-employee lock together with the result write.
package store

import (
	"context"
	"errors"

	"github.com/rgehrsitz/lohn/internal/domain"
)

var (
	ErrNotFound          = errors.New("payroll result not found")
	ErrResultFrozen      = errors.New("payroll result is finalized or locked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaleResult       = errors.New("payroll result was computed against outdated YTD totals, recompute it")
)

// Store is the persistence collaborator of the payroll service
type Store interface {
	// SaveResult stores a draft or reviewed result, replacing a non-frozen
	// result with the same key. A frozen existing result yields ErrResultFrozen.
	SaveResult(ctx context.Context, res *domain.PayrollResult) (*domain.PayrollResult, error)
	Result(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error)
	Results(ctx context.Context, employeeID string, year int) ([]*domain.PayrollResult, error)

	// Accumulators returns the stored running totals, zero when none exist
	Accumulators(ctx context.Context, employeeID string) (domain.Accumulators, error)
	// InitAccumulators sets the running totals unless some are stored already
	InitAccumulators(ctx context.Context, employeeID string, acc domain.Accumulators) error

	// Transition changes the status of a result and applies or reverts its
	// YTD delta in the same atomic unit.
	Transition(ctx context.Context, key domain.ResultKey, to domain.Status) (*domain.PayrollResult, error)
}

func cloneResult(res *domain.PayrollResult) *domain.PayrollResult {
	if res == nil {
		return nil
	}
	c := *res
	c.Items = append([]domain.LineItem(nil), res.Items...)
	return &c
}
