package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// ErrPreconditionFailed is returned by conditional updates whose guard no longer holds.
var ErrPreconditionFailed = errors.New("repository: precondition failed")

// DB is the query surface shared by pgxpool.Pool and pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation   = "23505"
	invalidTextFormat = "22P02"
)

// psql builds Postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere
// in the column. Backslash is the default LIKE escape character in Postgres.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// mapErr translates driver errors into domain errors.
func mapErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextFormat {
		// a malformed uuid can never match a row
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "assets_barcode_key":
			return domain.NewConflictError(domain.ReasonDuplicateBarcode, "barcode is already in use")
		case "users_email_key", "employees_email_key":
			return domain.NewConflictError(domain.ReasonDuplicateEmail, "email is already registered")
		}
		return domain.NewConflictError(domain.ConflictReason(pgErr.ConstraintName), pgErr.Message)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func queryAll[T any](ctx context.Context, db DB, b sq.SelectBuilder, scan func(pgx.Rows) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func paginate(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}
