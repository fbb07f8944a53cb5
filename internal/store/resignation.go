package store

import (
	"context"
	"sync"
	"time"

	"github.com/exitflow/apiserver/types"
	"github.com/google/uuid"
)

// ResignationStore holds resignation records in process memory.
//
// Both invariants that span a read-then-write sequence are enforced
// under the store's write lock so concurrent callers cannot interleave
// between check and mutation: at most one Pending resignation per
// employee (Create), and status transitions only from an expected
// current status (Transition).
type ResignationStore struct {
	mu           sync.RWMutex
	resignations map[string]types.Resignation
}

func NewResignationStore() *ResignationStore {
	return &ResignationStore{resignations: make(map[string]types.Resignation)}
}

func (s *ResignationStore) GetByID(ctx context.Context, id string) (types.Resignation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resignations[id]
	if !ok {
		return types.Resignation{}, ErrNotFound
	}
	return res, nil
}

func (s *ResignationStore) GetByEmployeeID(ctx context.Context, employeeID string) ([]types.Resignation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Resignation
	for _, res := range s.resignations {
		if res.EmployeeID == employeeID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *ResignationStore) List(ctx context.Context) ([]types.Resignation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Resignation, 0, len(s.resignations))
	for _, res := range s.resignations {
		out = append(out, res)
	}
	return out, nil
}

// Create inserts a resignation. It returns ErrConflict if the employee
// already has a resignation in Pending status.
func (s *ResignationStore) Create(ctx context.Context, res types.Resignation) (types.Resignation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.resignations {
		if existing.EmployeeID == res.EmployeeID && existing.Status == types.StatusPending {
			return types.Resignation{}, ErrConflict
		}
	}

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.SubmittedAt.IsZero() {
		res.SubmittedAt = time.Now()
	}
	s.resignations[res.ID] = res
	return res, nil
}

// Transition applies mutate to the resignation identified by id,
// atomically with respect to other callers, but only while its current
// status equals from. A stale status returns ErrConflict.
func (s *ResignationStore) Transition(ctx context.Context, id string, from types.Status, mutate func(*types.Resignation)) (types.Resignation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resignations[id]
	if !ok {
		return types.Resignation{}, ErrNotFound
	}
	if res.Status != from {
		return types.Resignation{}, ErrConflict
	}

	mutate(&res)
	s.resignations[id] = res
	return res, nil
}
