package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rgehrsitz/lohn/internal/domain"
)

// MemoryStore keeps everything in process memory. Operations on one
// employee are serialised by a per-employee mutex.
type MemoryStore struct {
	mu           sync.Mutex
	results      map[domain.ResultKey]*domain.PayrollResult
	accumulators map[string]domain.Accumulators
	locks        map[string]*sync.Mutex
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:      make(map[domain.ResultKey]*domain.PayrollResult),
		accumulators: make(map[string]domain.Accumulators),
		locks:        make(map[string]*sync.Mutex),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) lockEmployee(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *MemoryStore) SaveResult(_ context.Context, res *domain.PayrollResult) (*domain.PayrollResult, error) {
	if res.Status.Frozen() {
		return nil, ErrResultFrozen
	}
	unlock := s.lockEmployee(res.EmployeeID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	saved := cloneResult(res)
	if existing, ok := s.results[res.Key()]; ok {
		if existing.Status.Frozen() {
			return nil, ErrResultFrozen
		}
		saved.ID = existing.ID
	}
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.Status == "" {
		saved.Status = domain.StatusDraft
	}
	saved.YTDApplied = false
	s.results[saved.Key()] = saved
	return cloneResult(saved), nil
}

func (s *MemoryStore) Result(_ context.Context, key domain.ResultKey) (*domain.PayrollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneResult(res), nil
}

func (s *MemoryStore) Results(_ context.Context, employeeID string, year int) ([]*domain.PayrollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PayrollResult
	for k, res := range s.results {
		if k.EmployeeID == employeeID && k.Year == year {
			out = append(out, cloneResult(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *MemoryStore) Accumulators(_ context.Context, employeeID string) (domain.Accumulators, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accumulators[employeeID], nil
}

func (s *MemoryStore) InitAccumulators(_ context.Context, employeeID string, acc domain.Accumulators) error {
	unlock := s.lockEmployee(employeeID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accumulators[employeeID]; !ok {
		s.accumulators[employeeID] = acc
	}
	return nil
}

func (s *MemoryStore) Transition(_ context.Context, key domain.ResultKey, to domain.Status) (*domain.PayrollResult, error) {
	unlock := s.lockEmployee(key.EmployeeID)
	defer unlock()

	s.mu.Lock()
	stored, ok := s.results[key]
	acc := s.accumulators[key.EmployeeID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	res := cloneResult(stored)
	acc, err := ApplyTransition(res, acc, to)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.results[key] = res
	s.accumulators[key.EmployeeID] = acc
	s.mu.Unlock()
	return cloneResult(res), nil
}
