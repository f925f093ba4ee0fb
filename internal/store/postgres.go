package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

// DB is the subset of *pgxpool.Pool the store uses
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists results as JSONB next to the searchable columns.
// Per-employee serialisation uses a row lock on the accumulator row.
type PostgresStore struct {
	DB  DB
	log *logrus.Entry
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an existing pool or connection
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{DB: db, log: logrus.WithField("module", "store")}
}

// OpenPostgres connects a pool and creates the tables when missing
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	s := NewPostgresStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return s, pool, nil
}

// Migrate creates the tables if they do not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.log.WithError(err).Warn("rollback failed")
	}
}

// lockAccumulators creates the accumulator row if needed and locks it for
// the rest of the transaction.
func lockAccumulators(ctx context.Context, tx pgx.Tx, employeeID string) (domain.Accumulators, error) {
	if _, err := tx.Exec(ctx, `
    INSERT INTO payroll_accumulators (employee_id)
    VALUES ($1)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID); err != nil {
		return domain.Accumulators{}, err
	}
	var acc domain.Accumulators
	err := tx.QueryRow(ctx, `
    SELECT year, alv_basis, uvg_basis, bvg_basis, bvg_insured
    FROM payroll_accumulators
    WHERE employee_id = $1
    FOR UPDATE
  `, employeeID).Scan(&acc.Year, &acc.ALVBasis, &acc.UVGBasis, &acc.BVGBasis, &acc.BVGInsured)
	return acc, err
}

func writeAccumulators(ctx context.Context, tx pgx.Tx, employeeID string, acc domain.Accumulators) error {
	_, err := tx.Exec(ctx, `
    UPDATE payroll_accumulators
    SET year = $2, alv_basis = $3, uvg_basis = $4, bvg_basis = $5, bvg_insured = $6, updated_at = now()
    WHERE employee_id = $1
  `, employeeID, acc.Year, acc.ALVBasis, acc.UVGBasis, acc.BVGBasis, acc.BVGInsured)
	return err
}

func scanResult(row pgx.Row) (*domain.PayrollResult, error) {
	var payload []byte
	var status string
	var applied bool
	if err := row.Scan(&payload, &status, &applied); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var res domain.PayrollResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decode payroll result: %w", err)
	}
	res.Status = domain.Status(status)
	res.YTDApplied = applied
	return &res, nil
}

func upsertResult(ctx context.Context, tx pgx.Tx, res *domain.PayrollResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode payroll result: %w", err)
	}
	_, err = tx.Exec(ctx, `
    INSERT INTO payroll_results (id, employee_id, year, month, status, ytd_applied, gross, net, payload, computed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (employee_id, year, month)
      DO UPDATE SET status = EXCLUDED.status,
                    ytd_applied = EXCLUDED.ytd_applied,
                    gross = EXCLUDED.gross,
                    net = EXCLUDED.net,
                    payload = EXCLUDED.payload,
                    computed_at = EXCLUDED.computed_at,
                    updated_at = now()
  `, res.ID, res.EmployeeID, res.Year, res.Month, string(res.Status), res.YTDApplied,
		res.Bases.Gross, res.Net, payload, res.ComputedAt)
	return err
}

const selectResult = `
    SELECT payload, status, ytd_applied
    FROM payroll_results
    WHERE employee_id = $1 AND year = $2 AND month = $3`

func (s *PostgresStore) SaveResult(ctx context.Context, res *domain.PayrollResult) (*domain.PayrollResult, error) {
	if res.Status.Frozen() {
		return nil, ErrResultFrozen
	}
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollback(ctx, tx)

	if _, err := lockAccumulators(ctx, tx, res.EmployeeID); err != nil {
		return nil, err
	}

	saved := cloneResult(res)
	existing, err := scanResult(tx.QueryRow(ctx, selectResult+" FOR UPDATE", res.EmployeeID, res.Year, res.Month))
	switch {
	case err == nil:
		if existing.Status.Frozen() {
			return nil, ErrResultFrozen
		}
		saved.ID = existing.ID
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.Status == "" {
		saved.Status = domain.StatusDraft
	}
	saved.YTDApplied = false

	if err := upsertResult(ctx, tx, saved); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PostgresStore) Result(ctx context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	return scanResult(s.DB.QueryRow(ctx, selectResult, key.EmployeeID, key.Year, key.Month))
}

func (s *PostgresStore) Results(ctx context.Context, employeeID string, year int) ([]*domain.PayrollResult, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT payload, status, ytd_applied
    FROM payroll_results
    WHERE employee_id = $1 AND year = $2
    ORDER BY month
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PayrollResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Accumulators(ctx context.Context, employeeID string) (domain.Accumulators, error) {
	var acc domain.Accumulators
	err := s.DB.QueryRow(ctx, `
    SELECT year, alv_basis, uvg_basis, bvg_basis, bvg_insured
    FROM payroll_accumulators
    WHERE employee_id = $1
  `, employeeID).Scan(&acc.Year, &acc.ALVBasis, &acc.UVGBasis, &acc.BVGBasis, &acc.BVGInsured)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Accumulators{}, nil
	}
	return acc, err
}

func (s *PostgresStore) InitAccumulators(ctx context.Context, employeeID string, acc domain.Accumulators) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_accumulators (employee_id, year, alv_basis, uvg_basis, bvg_basis, bvg_insured)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID, acc.Year, acc.ALVBasis, acc.UVGBasis, acc.BVGBasis, acc.BVGInsured)
	return err
}

func (s *PostgresStore) Transition(ctx context.Context, key domain.ResultKey, to domain.Status) (*domain.PayrollResult, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollback(ctx, tx)

	acc, err := lockAccumulators(ctx, tx, key.EmployeeID)
	if err != nil {
		return nil, err
	}
	res, err := scanResult(tx.QueryRow(ctx, selectResult+" FOR UPDATE", key.EmployeeID, key.Year, key.Month))
	if err != nil {
		return nil, err
	}

	acc, err = ApplyTransition(res, acc, to)
	if err != nil {
		return nil, err
	}
	if err := writeAccumulators(ctx, tx, key.EmployeeID, acc); err != nil {
		return nil, err
	}
	if err := upsertResult(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"result": key.String(), "status": to}).Debug("transition committed")
	return res, nil
}
