// Package payroll ties the engine, the plausibility checks and the store
// together: recalculate a month, move it through its lifecycle, run a year.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/lohn/internal/calculation"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/rgehrsitz/lohn/internal/store"
	"github.com/rgehrsitz/lohn/internal/validation"
)

// ErrBlocked is returned when a result has error findings and was not saved
var ErrBlocked = errors.New("payroll result has blocking findings")

// Service runs payroll for employees against a store
type Service struct {
	Store  store.Store
	Engine *calculation.Engine
	Rates  rates.Source
	Logger calculation.Logger
}

// NewService creates a service; the engine reads from the same rate source
func NewService(st store.Store, src rates.Source) *Service {
	return &Service{
		Store:  st,
		Engine: calculation.NewEngine(src),
		Rates:  src,
		Logger: calculation.NopLogger{},
	}
}

// SetLogger sets the logger of the service and its engine
func (s *Service) SetLogger(l calculation.Logger) {
	s.Engine.SetLogger(l)
	s.Logger = s.Engine.Logger
}

// Outcome is the result of one recalculated month
type Outcome struct {
	Result   *domain.PayrollResult
	Findings []domain.Finding
	Err      error
}

// Recalculate computes one month from the stored accumulators, validates it
// and saves it as draft. A configuration error aborts without saving; a
// result with blocking findings is returned together with ErrBlocked and is
// not saved either. Frozen results are never recomputed.
func (s *Service) Recalculate(ctx context.Context, employer domain.Employer, emp *domain.EmployeeProfile, period domain.PeriodInput, overtime *domain.OvertimePolicy) (*domain.PayrollResult, []domain.Finding, error) {
	key := domain.ResultKey{EmployeeID: emp.ID, Year: period.Year, Month: period.Month}
	existing, err := s.Store.Result(ctx, key)
	switch {
	case err == nil && existing.Status.Frozen():
		return existing, nil, fmt.Errorf("recalculate %s: %w", key, store.ErrResultFrozen)
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, nil, err
	}

	if err := s.Store.InitAccumulators(ctx, emp.ID, emp.YTD); err != nil {
		return nil, nil, err
	}
	acc, err := s.Store.Accumulators(ctx, emp.ID)
	if err != nil {
		return nil, nil, err
	}

	vp := validation.Period{Year: period.Year, Month: period.Month, HoursWorked: period.HoursWorked, OvertimeHours: period.OvertimeHours}
	res, err := s.Engine.Compute(calculation.Input{
		Employee:      emp,
		Employer:      employer,
		Year:          period.Year,
		Month:         period.Month,
		HoursWorked:   period.HoursWorked,
		OvertimeHours: period.OvertimeHours,
		Items:         period.Items,
		PriorYTD:      acc,
		Overtime:      overtime,
	})
	if err != nil {
		findings := validation.Validate(emp, period.Items, nil, s.Rates, vp)
		return nil, findings, fmt.Errorf("compute %s: %w", key, err)
	}

	findings := validation.Validate(emp, period.Items, res, s.Rates, vp)
	if validation.HasBlocking(findings) {
		s.Logger.Warnf("%s not saved: %d blocking findings", key, len(validation.BySeverity(findings, domain.SeverityError)))
		return res, findings, fmt.Errorf("%s: %w", key, ErrBlocked)
	}

	saved, err := s.Store.SaveResult(ctx, res)
	if err != nil {
		return nil, findings, err
	}
	return saved, findings, nil
}

// Review marks a draft as reviewed
func (s *Service) Review(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	return s.transition(ctx, key, domain.StatusReviewed)
}

// Finalize freezes a result and applies its YTD delta to the accumulators
func (s *Service) Finalize(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	return s.transition(ctx, key, domain.StatusFinalized)
}

// Lock marks a finalized result as locked
func (s *Service) Lock(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	return s.transition(ctx, key, domain.StatusLocked)
}

// Unlock moves a finalized or locked result back to draft and reverts its
// YTD delta.
func (s *Service) Unlock(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	res, err := s.Store.Result(ctx, key)
	if err != nil {
		return nil, err
	}
	if !res.Status.Frozen() {
		return nil, fmt.Errorf("unlock %s: %w: status is %s", key, store.ErrInvalidTransition, res.Status)
	}
	return s.transition(ctx, key, domain.StatusDraft)
}

func (s *Service) transition(ctx context.Context, key domain.ResultKey, to domain.Status) (*domain.PayrollResult, error) {
	res, err := s.Store.Transition(ctx, key, to)
	if err != nil {
		return nil, fmt.Errorf("%s -> %s: %w", key, to, err)
	}
	s.Logger.Infof("%s is now %s", key, to)
	return res, nil
}

// RunYear recalculates and finalizes every period of a case in calendar
// order so that each month sees the accumulators of the months before it.
// It stops at the first configuration error; blocked months are reported
// and skipped.
func (s *Service) RunYear(ctx context.Context, c *domain.Case) ([]Outcome, error) {
	periods := append([]domain.PeriodInput(nil), c.Periods...)
	sort.SliceStable(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Month < periods[j].Month
	})

	emp := c.Employee
	outcomes := make([]Outcome, 0, len(periods))
	for _, p := range periods {
		res, findings, err := s.Recalculate(ctx, c.Employer, &emp, p, c.Overtime)
		out := Outcome{Result: res, Findings: findings, Err: err}
		switch {
		case errors.Is(err, ErrBlocked), errors.Is(err, store.ErrResultFrozen):
			outcomes = append(outcomes, out)
			continue
		case err != nil:
			outcomes = append(outcomes, out)
			return outcomes, err
		}
		if out.Result, err = s.Finalize(ctx, res.Key()); err != nil {
			out.Err = err
			outcomes = append(outcomes, out)
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
