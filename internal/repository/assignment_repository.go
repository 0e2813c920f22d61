package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// AssignmentFilter captures list parameters for assignments.
type AssignmentFilter struct {
	AssetID    string
	EmployeeID string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// AssignmentRepository encapsulates assignment persistence.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	Close(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error)
}

var assignmentColumns = []string{
	"id", "asset_id", "employee_id", "assigned_by", "assigned_date", "return_date", "notes", "created_at",
}

type assignmentRepository struct {
	db DB
}

var _ AssignmentRepository = (*assignmentRepository)(nil)

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(db DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (id, asset_id, employee_id, assigned_by, assigned_date, return_date, notes, created_at)
        VALUES ($1,$2,$3,NULLIF($4,'')::uuid,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.AssetID,
		a.EmployeeID,
		a.AssignedBy,
		a.AssignedDate,
		a.ReturnDate,
		a.Notes,
		a.CreatedAt,
	)
	return mapErr("create assignment", err)
}

// Close stores the return date only while the assignment is still open.
func (r *assignmentRepository) Close(ctx context.Context, a *domain.Assignment) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE assignments SET return_date=$1 WHERE id=$2 AND return_date IS NULL`,
		a.ReturnDate, a.ID)
	if err != nil {
		return mapErr("close assignment", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id=$1`, id)
	if err != nil {
		return mapErr("delete assignment", err)
	}
	if cmd.RowsAffected() == 0 {
		return mapErr("delete assignment", pgx.ErrNoRows)
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	query, args, err := psql.Select(assignmentSelect()...).From("assignments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	a, err := scanAssignment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("get assignment", err)
	}
	return &a, nil
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error) {
	b := psql.Select(assignmentSelect()...).From("assignments")
	if filter.AssetID != "" {
		b = b.Where(sq.Eq{"asset_id": filter.AssetID})
	}
	if filter.EmployeeID != "" {
		b = b.Where(sq.Eq{"employee_id": filter.EmployeeID})
	}
	if filter.ActiveOnly {
		b = b.Where(sq.Eq{"return_date": nil})
	}
	b = paginate(b.OrderBy("assigned_date DESC", "created_at DESC"), filter.Limit, filter.Offset)

	assignments, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.Assignment, error) { return scanAssignment(rows) })
	return assignments, mapErr("list assignments", err)
}

// assignmentSelect renders assigned_by as text so a missing actor scans into an empty string.
func assignmentSelect() []string {
	cols := make([]string, len(assignmentColumns))
	copy(cols, assignmentColumns)
	cols[3] = "COALESCE(assigned_by::text, '')"
	return cols
}

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID,
		&a.AssetID,
		&a.EmployeeID,
		&a.AssignedBy,
		&a.AssignedDate,
		&a.ReturnDate,
		&a.Notes,
		&a.CreatedAt,
	)
	return a, err
}
