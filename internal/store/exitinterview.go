package store

import (
	"context"
	"sync"
	"time"

	"github.com/exitflow/apiserver/types"
	"github.com/google/uuid"
)

// ExitInterviewStore holds exit interview records in process memory.
type ExitInterviewStore struct {
	mu         sync.RWMutex
	interviews map[string]types.ExitInterview
}

func NewExitInterviewStore() *ExitInterviewStore {
	return &ExitInterviewStore{interviews: make(map[string]types.ExitInterview)}
}

func (s *ExitInterviewStore) GetByID(ctx context.Context, id string) (types.ExitInterview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interview, ok := s.interviews[id]
	if !ok {
		return types.ExitInterview{}, ErrNotFound
	}
	return interview, nil
}

func (s *ExitInterviewStore) GetByResignationID(ctx context.Context, resignationID string) (types.ExitInterview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, interview := range s.interviews {
		if interview.ResignationID == resignationID {
			return interview, nil
		}
	}
	return types.ExitInterview{}, ErrNotFound
}

func (s *ExitInterviewStore) List(ctx context.Context) ([]types.ExitInterview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ExitInterview, 0, len(s.interviews))
	for _, interview := range s.interviews {
		out = append(out, interview)
	}
	return out, nil
}

// Create inserts an exit interview. At most one interview per
// resignation is enforced under the write lock; a duplicate returns
// ErrConflict.
func (s *ExitInterviewStore) Create(ctx context.Context, interview types.ExitInterview) (types.ExitInterview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.interviews {
		if existing.ResignationID == interview.ResignationID {
			return types.ExitInterview{}, ErrConflict
		}
	}

	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	if interview.SubmittedAt.IsZero() {
		interview.SubmittedAt = time.Now()
	}
	s.interviews[interview.ID] = interview
	return interview, nil
}

// Update applies mutate to the interview identified by id. Unlike
// resignation transitions there is no status precondition; re-review
// simply overwrites the reviewer fields.
func (s *ExitInterviewStore) Update(ctx context.Context, id string, mutate func(*types.ExitInterview)) (types.ExitInterview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interview, ok := s.interviews[id]
	if !ok {
		return types.ExitInterview{}, ErrNotFound
	}

	mutate(&interview)
	s.interviews[id] = interview
	return interview, nil
}
