package rates

import (
	"fmt"
)

// Resolution records which strategy produced a record
type Resolution struct {
	Key      Key
	Strategy string
}

// Resolver tries its strategies in order and returns the first hit
type Resolver struct {
	table      *Table
	strategies []LookupStrategy
}

// NewResolver builds a resolver over t using DefaultStrategies
func NewResolver(t *Table) *Resolver {
	return NewResolverWithStrategies(t, DefaultStrategies()...)
}

// NewResolverWithStrategies builds a resolver with an explicit chain
func NewResolverWithStrategies(t *Table, strategies ...LookupStrategy) *Resolver {
	if t == nil {
		t = NewTable()
	}
	return &Resolver{table: t, strategies: strategies}
}

// Table returns the underlying table
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve runs the strategy chain for q
func (r *Resolver) Resolve(q Key) (any, Resolution, error) {
	q.Canton = normalize(q.Canton)
	q.Code = normalize(q.Code)
	for _, s := range r.strategies {
		if rec, ok := s.Lookup(r.table, q); ok {
			return rec, Resolution{Key: q, Strategy: s.Name()}, nil
		}
	}
	return nil, Resolution{Key: q}, &ConfigurationError{
		Scheme: q.Scheme,
		Year:   q.Year,
		Canton: q.Canton,
		Code:   q.Code,
		Err:    ErrRateNotFound,
	}
}

func resolveAs[T any](r *Resolver, q Key) (T, Resolution, error) {
	var zero T
	rec, res, err := r.Resolve(q)
	if err != nil {
		return zero, res, err
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, res, &ConfigurationError{
			Scheme: q.Scheme,
			Year:   q.Year,
			Canton: q.Canton,
			Code:   q.Code,
			Err:    fmt.Errorf("record %s has type %T", q, rec),
		}
	}
	return typed, res, nil
}
