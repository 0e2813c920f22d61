package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// MaintenanceLogFilter captures list parameters for tickets.
type MaintenanceLogFilter struct {
	DeviceID string
	UserID   string
	Status   domain.MaintenanceStatus
	Type     domain.MaintenanceType
	Limit    int
	Offset   int
}

// MaintenanceLogRepository encapsulates ticket persistence.
type MaintenanceLogRepository interface {
	Create(ctx context.Context, log *domain.MaintenanceLog) error
	UpdateStatus(ctx context.Context, log *domain.MaintenanceLog, expected domain.MaintenanceStatus) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceLog, error)
	List(ctx context.Context, filter MaintenanceLogFilter) ([]domain.MaintenanceLog, error)
}

var maintenanceLogColumns = []string{
	"id", "device_id", "user_id", "type", "description", "status", "created_at", "updated_at",
}

type maintenanceLogRepository struct {
	db DB
}

var _ MaintenanceLogRepository = (*maintenanceLogRepository)(nil)

// NewMaintenanceLogRepository instantiates repository.
func NewMaintenanceLogRepository(db DB) MaintenanceLogRepository {
	return &maintenanceLogRepository{db: db}
}

func (r *maintenanceLogRepository) Create(ctx context.Context, l *domain.MaintenanceLog) error {
	const query = `
        INSERT INTO maintenance_logs (id, device_id, user_id, type, description, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		l.ID,
		l.DeviceID,
		l.UserID,
		l.Type,
		l.Description,
		l.Status,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return mapErr("create maintenance log", err)
}

// UpdateStatus writes the new status only while the stored status equals expected.
func (r *maintenanceLogRepository) UpdateStatus(ctx context.Context, l *domain.MaintenanceLog, expected domain.MaintenanceStatus) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE maintenance_logs SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`,
		l.Status, l.UpdatedAt, l.ID, expected)
	if err != nil {
		return mapErr("update maintenance log", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func (r *maintenanceLogRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceLog, error) {
	query, args, err := psql.Select(maintenanceLogColumns...).From("maintenance_logs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	l, err := scanMaintenanceLog(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("get maintenance log", err)
	}
	return &l, nil
}

func (r *maintenanceLogRepository) List(ctx context.Context, filter MaintenanceLogFilter) ([]domain.MaintenanceLog, error) {
	b := psql.Select(maintenanceLogColumns...).From("maintenance_logs")
	if filter.DeviceID != "" {
		b = b.Where(sq.Eq{"device_id": filter.DeviceID})
	}
	if filter.UserID != "" {
		b = b.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		b = b.Where(sq.Eq{"type": filter.Type})
	}
	b = paginate(b.OrderBy("created_at DESC"), filter.Limit, filter.Offset)

	logs, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.MaintenanceLog, error) { return scanMaintenanceLog(rows) })
	return logs, mapErr("list maintenance logs", err)
}

func scanMaintenanceLog(row pgx.Row) (domain.MaintenanceLog, error) {
	var l domain.MaintenanceLog
	err := row.Scan(
		&l.ID,
		&l.DeviceID,
		&l.UserID,
		&l.Type,
		&l.Description,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

// MaintenanceLogHistoryRepository stores ticket audit entries.
type MaintenanceLogHistoryRepository interface {
	Create(ctx context.Context, history *domain.MaintenanceLogHistory) error
	ListByLog(ctx context.Context, logID string) ([]domain.MaintenanceLogHistory, error)
}

type maintenanceLogHistoryRepository struct {
	db DB
}

// NewMaintenanceLogHistoryRepository builds repository.
func NewMaintenanceLogHistoryRepository(db DB) MaintenanceLogHistoryRepository {
	return &maintenanceLogHistoryRepository{db: db}
}

func (r *maintenanceLogHistoryRepository) Create(ctx context.Context, h *domain.MaintenanceLogHistory) error {
	const query = `
        INSERT INTO maintenance_log_history (id, log_id, changed_by, old_status, new_status, comment, created_at)
        VALUES ($1,$2,NULLIF($3,'')::uuid,$4,$5,$6,$7)`
	_, err := r.db.Exec(ctx, query,
		h.ID,
		h.LogID,
		h.ChangedBy,
		h.OldStatus,
		h.NewStatus,
		h.Comment,
		h.CreatedAt,
	)
	return mapErr("create maintenance log history", err)
}

func (r *maintenanceLogHistoryRepository) ListByLog(ctx context.Context, logID string) ([]domain.MaintenanceLogHistory, error) {
	const query = `
        SELECT id, log_id, COALESCE(changed_by::text, ''), old_status, new_status, comment, created_at
        FROM maintenance_log_history WHERE log_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, logID)
	if err != nil {
		return nil, mapErr("list maintenance log history", err)
	}
	defer rows.Close()

	result := []domain.MaintenanceLogHistory{}
	for rows.Next() {
		var h domain.MaintenanceLogHistory
		if err := rows.Scan(
			&h.ID,
			&h.LogID,
			&h.ChangedBy,
			&h.OldStatus,
			&h.NewStatus,
			&h.Comment,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, rows.Err()
}
