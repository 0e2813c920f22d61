package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

func TestMaintenanceLogRepository_UpdateStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	log := &domain.MaintenanceLog{ID: "t1", Status: domain.MaintenanceStatusInProgress, UpdatedAt: now}

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"status unchanged since read", 1, nil},
		{"concurrent change", 0, ErrPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMockDB(t)
			mock.ExpectExec(`UPDATE maintenance_logs SET status=\$1, updated_at=\$2 WHERE id=\$3 AND status=\$4`).
				WithArgs(domain.MaintenanceStatusInProgress, now, "t1", domain.MaintenanceStatusOpen).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := NewMaintenanceLogRepository(mock).UpdateStatus(context.Background(), log, domain.MaintenanceStatusOpen)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMaintenanceLogRepository_List(t *testing.T) {
	t.Parallel()

	now := time.Now()
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM maintenance_logs WHERE device_id = \$1 AND status = \$2 ORDER BY created_at DESC`).
		WithArgs("a1", domain.MaintenanceStatusOpen).
		WillReturnRows(pgxmock.NewRows(maintenanceLogColumns).
			AddRow("t1", "a1", "u1", domain.MaintenanceTypeMisc, "Screen flickers", domain.MaintenanceStatusOpen, now, now))

	logs, err := NewMaintenanceLogRepository(mock).List(context.Background(), MaintenanceLogFilter{DeviceID: "a1", Status: domain.MaintenanceStatusOpen})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.MaintenanceTypeMisc, logs[0].Type)
}

func TestMaintenanceLogRepository_GetByIDNotFound(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectQuery(`FROM maintenance_logs WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewMaintenanceLogRepository(mock).GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaintenanceLogHistoryRepository(t *testing.T) {
	t.Parallel()

	now := time.Now()
	mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO maintenance_log_history`).
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM maintenance_log_history WHERE log_id=\$1 ORDER BY created_at ASC`).
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "log_id", "changed_by", "old_status", "new_status", "comment", "created_at"}).
			AddRow("h1", "t1", "m1", domain.MaintenanceStatusOpen, domain.MaintenanceStatusInProgress, "", now))

	repo := NewMaintenanceLogHistoryRepository(mock)
	require.NoError(t, repo.Create(context.Background(), &domain.MaintenanceLogHistory{ID: "h1", LogID: "t1"}))

	entries, err := repo.ListByLog(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.MaintenanceStatusInProgress, entries[0].NewStatus)
}
