package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/exitflow/apiserver/internal/holiday"
	"github.com/exitflow/apiserver/internal/store"
	"github.com/exitflow/apiserver/types"
)

// ResignationRepository defines persistence operations for resignations.
// Create must reject a second Pending resignation for the same employee
// with store.ErrConflict, and Transition must apply the mutation only
// while the current status matches from.
type ResignationRepository interface {
	GetByID(ctx context.Context, id string) (types.Resignation, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]types.Resignation, error)
	List(ctx context.Context) ([]types.Resignation, error)
	Create(ctx context.Context, res types.Resignation) (types.Resignation, error)
	Transition(ctx context.Context, id string, from types.Status, mutate func(*types.Resignation)) (types.Resignation, error)
}

// DateValidator checks whether a date is an admissible last-working-day.
type DateValidator interface {
	ValidateResignationDate(ctx context.Context, date time.Time, country string) holiday.Validation
}

// Notifier dispatches best-effort notifications on state transitions.
// Implementations must never block or fail the caller.
type Notifier interface {
	ResignationSubmitted(res types.Resignation)
	ResignationApproved(res types.Resignation)
	ResignationRejected(res types.Resignation)
}

// ResignationService encapsulates the resignation lifecycle.
type ResignationService struct {
	repo     ResignationRepository
	dates    DateValidator
	notifier Notifier
}

func NewResignationService(repo ResignationRepository, dates DateValidator, notifier Notifier) *ResignationService {
	return &ResignationService{repo: repo, dates: dates, notifier: notifier}
}

// Submit creates a Pending resignation for the acting employee.
func (s *ResignationService) Submit(ctx context.Context, actor types.User, lastWorkingDay, reason string) (types.Resignation, error) {
	lastWorkingDay = strings.TrimSpace(lastWorkingDay)
	reason = strings.TrimSpace(reason)
	if lastWorkingDay == "" || reason == "" {
		return types.Resignation{}, newValidationError("last working day and reason are required")
	}

	date, err := time.Parse(types.DateLayout, lastWorkingDay)
	if err != nil {
		return types.Resignation{}, newValidationError("invalid date format")
	}

	if !date.After(startOfToday()) {
		return types.Resignation{}, newValidationError("last working day must be in the future")
	}

	if v := s.dates.ValidateResignationDate(ctx, date, actor.Country); !v.Valid {
		return types.Resignation{}, newValidationError(v.Reason)
	}

	created, err := s.repo.Create(ctx, types.Resignation{
		EmployeeID:     actor.ID,
		EmployeeName:   actor.Name,
		EmployeeEmail:  actor.Email,
		LastWorkingDay: lastWorkingDay,
		Reason:         reason,
		Status:         types.StatusPending,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Resignation{}, ErrPendingResignation
		}
		return types.Resignation{}, err
	}

	s.notifier.ResignationSubmitted(created)
	return created, nil
}

// List returns all resignations for HR, or the actor's own otherwise.
func (s *ResignationService) List(ctx context.Context, actor types.User) ([]types.Resignation, error) {
	if actor.IsHR() {
		return s.repo.List(ctx)
	}
	return s.repo.GetByEmployeeID(ctx, actor.ID)
}

// Get returns one resignation, enforcing ownership for non-HR actors.
func (s *ResignationService) Get(ctx context.Context, actor types.User, id string) (types.Resignation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Resignation{}, err
	}
	if !actor.IsHR() && res.EmployeeID != actor.ID {
		return types.Resignation{}, ErrAccessDenied
	}
	return res, nil
}

// Approve transitions a Pending resignation to Approved with the given
// exit date. A resignation that is no longer Pending fails with
// ErrAlreadyReviewed, including under concurrent review attempts.
func (s *ResignationService) Approve(ctx context.Context, actor types.User, id, exitDate string) (types.Resignation, error) {
	exitDate = strings.TrimSpace(exitDate)
	if exitDate == "" {
		return types.Resignation{}, newValidationError("exit date is required")
	}
	if _, err := time.Parse(types.DateLayout, exitDate); err != nil {
		return types.Resignation{}, newValidationError("invalid exit date format")
	}

	updated, err := s.repo.Transition(ctx, id, types.StatusPending, func(res *types.Resignation) {
		now := time.Now()
		res.Status = types.StatusApproved
		res.ExitDate = exitDate
		res.ReviewedAt = &now
		res.ReviewedBy = actor.ID
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Resignation{}, ErrAlreadyReviewed
		}
		return types.Resignation{}, err
	}

	s.notifier.ResignationApproved(updated)
	return updated, nil
}

// Reject transitions a Pending resignation to Rejected. The rejection
// reason is optional.
func (s *ResignationService) Reject(ctx context.Context, actor types.User, id, rejectionReason string) (types.Resignation, error) {
	updated, err := s.repo.Transition(ctx, id, types.StatusPending, func(res *types.Resignation) {
		now := time.Now()
		res.Status = types.StatusRejected
		res.RejectionReason = strings.TrimSpace(rejectionReason)
		res.ReviewedAt = &now
		res.ReviewedBy = actor.ID
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Resignation{}, ErrAlreadyReviewed
		}
		return types.Resignation{}, err
	}

	s.notifier.ResignationRejected(updated)
	return updated, nil
}

// startOfToday returns today's date at midnight. Comparisons against it
// are day-granular; time of day is ignored.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
