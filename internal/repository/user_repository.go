package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// UserRepository defines persistence access for authenticated users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, user *domain.User, expected domain.UserRole) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

var userColumns = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapErr("create user", err)
}

// UpdateRole changes the role only while the stored role equals expected.
func (r *userRepository) UpdateRole(ctx context.Context, user *domain.User, expected domain.UserRole) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE users SET role=$1, updated_at=$2 WHERE id=$3 AND role=$4`,
		user.Role, user.UpdatedAt, user.ID, expected)
	if err != nil {
		return mapErr("update user role", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, sq.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, sq.Eq{"email": email})
}

func (r *userRepository) fetchSingle(ctx context.Context, pred sq.Eq) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(pred).ToSql()
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("get user", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	b := psql.Select(userColumns...).From("users").OrderBy("name ASC")
	if role != "" {
		b = b.Where(sq.Eq{"role": role})
	}
	users, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.User, error) { return scanUser(rows) })
	return users, mapErr("list users", err)
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
