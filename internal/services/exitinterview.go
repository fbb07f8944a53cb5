package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/exitflow/apiserver/internal/store"
	"github.com/exitflow/apiserver/types"
)

// ExitInterviewRepository defines persistence operations for exit
// interviews. Create must reject a second interview for the same
// resignation with store.ErrConflict.
type ExitInterviewRepository interface {
	GetByID(ctx context.Context, id string) (types.ExitInterview, error)
	GetByResignationID(ctx context.Context, resignationID string) (types.ExitInterview, error)
	List(ctx context.Context) ([]types.ExitInterview, error)
	Create(ctx context.Context, interview types.ExitInterview) (types.ExitInterview, error)
	Update(ctx context.Context, id string, mutate func(*types.ExitInterview)) (types.ExitInterview, error)
}

// ResignationReader is the read-only view of resignations the exit
// interview flow needs.
type ResignationReader interface {
	GetByID(ctx context.Context, id string) (types.Resignation, error)
}

// ExitInterviewService encapsulates the exit interview flow.
type ExitInterviewService struct {
	repo         ExitInterviewRepository
	resignations ResignationReader
}

func NewExitInterviewService(repo ExitInterviewRepository, resignations ResignationReader) *ExitInterviewService {
	return &ExitInterviewService{repo: repo, resignations: resignations}
}

// Submit creates the interview for an Approved resignation owned by the
// acting employee. At most one interview may exist per resignation.
func (s *ExitInterviewService) Submit(ctx context.Context, actor types.User, resignationID string, answers map[string]string) (types.ExitInterview, error) {
	resignationID = strings.TrimSpace(resignationID)
	if resignationID == "" || len(answers) == 0 {
		return types.ExitInterview{}, newValidationError("resignation id and answers are required")
	}

	res, err := s.resignations.GetByID(ctx, resignationID)
	if err != nil {
		return types.ExitInterview{}, err
	}
	if res.EmployeeID != actor.ID {
		return types.ExitInterview{}, ErrAccessDenied
	}
	if res.Status != types.StatusApproved {
		return types.ExitInterview{}, ErrInterviewNotApproved
	}

	created, err := s.repo.Create(ctx, types.ExitInterview{
		ResignationID: resignationID,
		EmployeeID:    actor.ID,
		EmployeeName:  actor.Name,
		Answers:       answers,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.ExitInterview{}, ErrInterviewExists
		}
		return types.ExitInterview{}, err
	}
	return created, nil
}

// List returns all interviews for HR, or the actor's own otherwise.
func (s *ExitInterviewService) List(ctx context.Context, actor types.User) ([]types.ExitInterview, error) {
	interviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsHR() {
		return interviews, nil
	}

	own := make([]types.ExitInterview, 0, len(interviews))
	for _, interview := range interviews {
		if interview.EmployeeID == actor.ID {
			own = append(own, interview)
		}
	}
	return own, nil
}

// Get returns one interview, enforcing ownership for non-HR actors.
func (s *ExitInterviewService) Get(ctx context.Context, actor types.User, id string) (types.ExitInterview, error) {
	interview, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.ExitInterview{}, err
	}
	if !actor.IsHR() && interview.EmployeeID != actor.ID {
		return types.ExitInterview{}, ErrAccessDenied
	}
	return interview, nil
}

// GetByResignation returns the interview for a resignation. The
// resignation is resolved first so a missing resignation and a missing
// interview both signal not-found, and ownership is checked against the
// resignation.
func (s *ExitInterviewService) GetByResignation(ctx context.Context, actor types.User, resignationID string) (types.ExitInterview, error) {
	res, err := s.resignations.GetByID(ctx, resignationID)
	if err != nil {
		return types.ExitInterview{}, err
	}
	if !actor.IsHR() && res.EmployeeID != actor.ID {
		return types.ExitInterview{}, ErrAccessDenied
	}
	return s.repo.GetByResignationID(ctx, resignationID)
}

// Review stamps the interview as reviewed by the acting HR user.
// Re-review is allowed and overwrites the reviewer and timestamp.
func (s *ExitInterviewService) Review(ctx context.Context, actor types.User, id string) (types.ExitInterview, error) {
	return s.repo.Update(ctx, id, func(interview *types.ExitInterview) {
		now := time.Now()
		interview.ReviewedAt = &now
		interview.ReviewedBy = actor.ID
	})
}
