package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Employee, error)
}

var employeeColumns = []string{"id", "name", "email", "employee_code", "department", "phone", "location", "created_at"}

type employeeRepository struct {
	db DB
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, email, employee_code, department, phone, location, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.Name,
		e.Email,
		e.EmployeeCode,
		e.Department,
		e.Phone,
		e.Location,
		e.CreatedAt,
	)
	return mapErr("create employee", err)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query, args, err := psql.Select(employeeColumns...).From("employees").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	e, err := scanEmployee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("get employee", err)
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Employee, error) {
	b := psql.Select(employeeColumns...).From("employees")
	if s := strings.TrimSpace(search); s != "" {
		pattern := containsPattern(s)
		b = b.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"employee_code": pattern},
			sq.ILike{"department": pattern},
		})
	}
	b = paginate(b.OrderBy("name ASC"), limit, offset)

	employees, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.Employee, error) { return scanEmployee(rows) })
	return employees, mapErr("list employees", err)
}

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.EmployeeCode,
		&e.Department,
		&e.Phone,
		&e.Location,
		&e.CreatedAt,
	)
	return e, err
}

// CategoryRepository stores the asset category vocabulary.
type CategoryRepository interface {
	EnsureNames(ctx context.Context, names []string) (int, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	db DB
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(db DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// EnsureNames inserts every missing category and reports how many were added.
func (r *categoryRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	added := 0
	for _, name := range names {
		cmd, err := r.db.Exec(ctx,
			`INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			uuid.NewString(), name)
		if err != nil {
			return added, mapErr("ensure category", err)
		}
		added += int(cmd.RowsAffected())
	}
	return added, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	b := psql.Select("id", "name", "description").From("categories").OrderBy("name ASC")
	categories, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.Category, error) {
		var c domain.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Description)
		return c, err
	})
	return categories, mapErr("list categories", err)
}
