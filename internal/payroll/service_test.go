package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/rgehrsitz/lohn/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T) *Service {
	t.Helper()
	table, err := rates.NewTableFromFile(&domain.RateFile{
		UVG: []domain.UVGRates{{Year: 2025, BU: dec("0.001"), NBU: dec("0.012"), Ceiling: dec("148200"), NBUMinWeeklyHr: dec("8")}},
		KTG: &domain.KTGRates{Employer: dec("0.005"), Employee: dec("0.005")},
	})
	require.NoError(t, err)
	return NewService(store.NewMemoryStore(), rates.NewResolver(table))
}

func testCase(salary string, months int) *domain.Case {
	c := &domain.Case{
		Employer: domain.Employer{Name: "Muster AG", Canton: "ZH"},
		Employee: domain.EmployeeProfile{
			ID:               "E1",
			Name:             "Anna Muster",
			BirthDate:        time.Date(1985, 4, 2, 0, 0, 0, 0, time.UTC),
			SalaryModel:      domain.SalaryMonthly,
			ContractSalary:   dec(salary),
			OccupancyPercent: dec("100"),
		},
	}
	for m := months; m >= 1; m-- {
		c.Periods = append(c.Periods, domain.PeriodInput{Year: 2025, Month: m})
	}
	return c
}

func TestService_RunYear_ALVCeiling(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	outcomes, err := svc.RunYear(ctx, testCase("20000", 12))
	require.NoError(t, err)
	require.Len(t, outcomes, 12)

	total := decimal.Zero
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		assert.Equal(t, i+1, o.Result.Month, "months run in order")
		assert.Equal(t, domain.StatusFinalized, o.Result.Status)
		total = total.Add(o.Result.Bases.ALV)
	}
	assert.True(t, dec("148200").Equal(total), "ALV bases sum to %s", total)

	acc, err := svc.Store.Accumulators(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, dec("148200").Equal(acc.ALVBasis))
	assert.Equal(t, 2025, acc.Year)
}

func TestService_FinalizeDraftsComputedUpFront(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	c := testCase("20000", 12)

	drafts := make(map[int]*domain.PayrollResult)
	for _, p := range c.Periods {
		res, _, err := svc.Recalculate(ctx, c.Employer, &c.Employee, p, nil)
		require.NoError(t, err)
		assert.True(t, dec("20000").Equal(res.Bases.ALV), "every draft sees an empty year")
		drafts[p.Month] = res
	}

	periods := make(map[int]domain.PeriodInput)
	for _, p := range c.Periods {
		periods[p.Month] = p
	}
	for m := 1; m <= 12; m++ {
		_, err := svc.Finalize(ctx, drafts[m].Key())
		if m == 1 {
			require.NoError(t, err)
			continue
		}
		require.True(t, errors.Is(err, store.ErrStaleResult), "month %d: %v", m, err)

		_, _, err = svc.Recalculate(ctx, c.Employer, &c.Employee, periods[m], nil)
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, drafts[m].Key())
		require.NoError(t, err, "month %d", m)
	}

	acc, err := svc.Store.Accumulators(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, dec("148200").Equal(acc.ALVBasis), "ALV accumulator %s", acc.ALVBasis)
	assert.True(t, dec("148200").Equal(acc.UVGBasis), "UVG accumulator %s", acc.UVGBasis)
	assert.True(t, acc.BVGInsured.LessThanOrEqual(dec("90720")), "BVG insured %s", acc.BVGInsured)
}

func TestService_FrozenResultNotRecomputed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	c := testCase("6000", 1)

	res, _, err := svc.Recalculate(ctx, c.Employer, &c.Employee, c.Periods[0], nil)
	require.NoError(t, err)
	_, err = svc.Review(ctx, res.Key())
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, res.Key())
	require.NoError(t, err)

	c.Employee.ContractSalary = dec("9000")
	_, _, err = svc.Recalculate(ctx, c.Employer, &c.Employee, c.Periods[0], nil)
	assert.True(t, errors.Is(err, store.ErrResultFrozen))

	locked, err := svc.Lock(ctx, res.Key())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLocked, locked.Status)

	unlocked, err := svc.Unlock(ctx, res.Key())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, unlocked.Status)
	acc, err := svc.Store.Accumulators(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, acc.ALVBasis.IsZero(), "unlock reverted the delta")

	_, err = svc.Unlock(ctx, res.Key())
	assert.True(t, errors.Is(err, store.ErrInvalidTransition))

	again, _, err := svc.Recalculate(ctx, c.Employer, &c.Employee, c.Periods[0], nil)
	require.NoError(t, err)
	assert.Equal(t, "9000.00", again.Bases.Gross.StringFixed(2))
	assert.Equal(t, res.ID, again.ID)
}

func TestService_BlockedNotSaved(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	c := testCase("6000", 1)
	c.Periods[0].Items = []domain.LineItem{{Category: domain.CategoryDeduction, UnitAmount: dec("10000")}}

	res, findings, err := svc.Recalculate(ctx, c.Employer, &c.Employee, c.Periods[0], nil)
	assert.True(t, errors.Is(err, ErrBlocked))
	require.NotNil(t, res)
	assert.True(t, res.Net.IsNegative())
	assert.NotEmpty(t, findings)

	_, err = svc.Store.Result(ctx, res.Key())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestService_ConfigurationErrorAborts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	c := testCase("6000", 3)
	c.Periods[1].Year = 2026 // no UVG record for 2026

	outcomes, err := svc.RunYear(ctx, c)
	require.Error(t, err)
	scheme, ok := rates.SchemeOf(err)
	assert.True(t, ok)
	assert.Equal(t, rates.SchemeUVG, scheme)
	// 2025-01 and 2025-03 succeed, 2026-02 sorts last and fails
	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)
}

func TestService_InitialYTDFromProfile(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	c := testCase("20000", 1)
	c.Periods[0].Month = 9
	c.Employee.YTD = domain.Accumulators{Year: 2025, ALVBasis: dec("145000"), UVGBasis: dec("145000")}

	res, findings, err := svc.Recalculate(ctx, c.Employer, &c.Employee, c.Periods[0], nil)
	require.NoError(t, err)
	assert.Equal(t, "3200.00", res.Bases.ALV.StringFixed(2))
	assert.NotEmpty(t, findings)
}
