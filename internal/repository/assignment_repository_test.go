package repository

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

func TestAssignmentRepository_Close(t *testing.T) {
	t.Parallel()

	returned := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assignment := &domain.Assignment{ID: "as1", ReturnDate: &returned}

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"open assignment", 1, nil},
		{"already returned", 0, ErrPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMockDB(t)
			mock.ExpectExec(`UPDATE assignments SET return_date=\$1 WHERE id=\$2 AND return_date IS NULL`).
				WithArgs(&returned, "as1").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := NewAssignmentRepository(mock).Close(context.Background(), assignment)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignmentRepository_ListActiveForAsset(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	assigned := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, asset_id, employee_id, COALESCE\(assigned_by::text, ''\), assigned_date, return_date, notes, created_at FROM assignments WHERE asset_id = \$1 AND return_date IS NULL ORDER BY assigned_date DESC, created_at DESC`).
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(assignmentColumns).
			AddRow("as1", "a1", "E1", "m1", assigned, (*time.Time)(nil), "", assigned))

	result, err := NewAssignmentRepository(mock).List(context.Background(), AssignmentFilter{AssetID: "a1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].IsActive())
	assert.Equal(t, "m1", result[0].AssignedBy)
}

func TestAssignmentRepository_CreateAndDelete(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO assignments`).
		WithArgs(anyArgs(8)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM assignments WHERE id=\$1`).
		WithArgs("as1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewAssignmentRepository(mock)
	require.NoError(t, repo.Create(context.Background(), &domain.Assignment{ID: "as1", AssetID: "a1", EmployeeID: "E1"}))
	require.NoError(t, repo.Delete(context.Background(), "as1"))
}
