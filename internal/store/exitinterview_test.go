package store

import (
	"context"
	"testing"

	"github.com/exitflow/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestExitInterviewCreateOnePerResignation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewExitInterviewStore()

	first, err := s.Create(ctx, types.ExitInterview{
		ResignationID: "res-1",
		EmployeeID:    "emp-1",
		Answers:       map[string]string{"why": "relocation"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = s.Create(ctx, types.ExitInterview{ResignationID: "res-1", EmployeeID: "emp-1"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = s.Create(ctx, types.ExitInterview{ResignationID: "res-2", EmployeeID: "emp-1"})
	require.NoError(t, err)
}

func TestExitInterviewLookupsAndUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewExitInterviewStore()

	_, err := s.GetByResignationID(ctx, "res-1")
	require.ErrorIs(t, err, ErrNotFound)

	created, err := s.Create(ctx, types.ExitInterview{ResignationID: "res-1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	byRes, err := s.GetByResignationID(ctx, "res-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, byRes.ID)

	updated, err := s.Update(ctx, created.ID, func(i *types.ExitInterview) {
		i.ReviewedBy = "hr-1"
	})
	require.NoError(t, err)
	require.Equal(t, "hr-1", updated.ReviewedBy)

	_, err = s.Update(ctx, "missing", func(i *types.ExitInterview) {})
	require.ErrorIs(t, err, ErrNotFound)
}
