package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

func assetRow(id string, status domain.AssetStatus, version int) *pgxmock.Rows {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	manufactured := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(assetColumns).AddRow(
		id, "Dell XPS 13", "", "LAPTOPS", "Dell", "9310", &manufactured,
		1499.5, (*time.Time)(nil), "", "12345678901", status, version,
		now, now,
	)
}

func TestAssetRepository_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		execErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "inserted",
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:    "duplicate barcode",
			execErr: &pgconn.PgError{Code: "23505", ConstraintName: "assets_barcode_key"},
			check: func(t *testing.T, err error) {
				var cerr *domain.ConflictError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, domain.ReasonDuplicateBarcode, cerr.Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMockDB(t)
			exp := mock.ExpectExec(`INSERT INTO assets`).WithArgs(anyArgs(15)...)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			repo := NewAssetRepository(mock)
			err := repo.Create(context.Background(), &domain.Asset{ID: "a1", Name: "Laptop", Category: "LAPTOPS", Status: domain.AssetStatusAvailable, Version: 1})
			tt.check(t, err)
		})
	}
}

func TestAssetRepository_Update(t *testing.T) {
	t.Parallel()

	t.Run("version matches", func(t *testing.T) {
		t.Parallel()
		mock := newMockDB(t)
		args := anyArgs(14)
		args[12] = "a1"
		args[13] = 3
		mock.ExpectQuery(`UPDATE assets SET .+ WHERE id=\$13 AND version=\$14`).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(4))

		asset := &domain.Asset{ID: "a1", Name: "Laptop", Status: domain.AssetStatusAssigned, Version: 3}
		require.NoError(t, NewAssetRepository(mock).Update(context.Background(), asset, 3))
		assert.Equal(t, 4, asset.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		t.Parallel()
		mock := newMockDB(t)
		mock.ExpectQuery(`UPDATE assets SET`).
			WithArgs(anyArgs(14)...).
			WillReturnError(pgx.ErrNoRows)

		asset := &domain.Asset{ID: "a1", Version: 3}
		err := NewAssetRepository(mock).Update(context.Background(), asset, 3)
		assert.ErrorIs(t, err, ErrPreconditionFailed)
	})
}

func TestAssetRepository_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM assets WHERE id = \$1`).
			WithArgs("a1").
			WillReturnRows(assetRow("a1", domain.AssetStatusAvailable, 2))

		asset, err := NewAssetRepository(mock).GetByID(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, "a1", asset.ID)
		assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
		assert.Equal(t, 2, asset.Version)
		require.NotNil(t, asset.Manufactured)
		assert.Nil(t, asset.WarrantyExpiry)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM assets WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewAssetRepository(mock).GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM assets WHERE id = \$1`).
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

		_, err := NewAssetRepository(mock).GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAssetRepository_List(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM assets WHERE status = \$1 AND category = \$2 AND \(name ILIKE \$3 OR barcode ILIKE \$4 OR manufacturer ILIKE \$5 OR model ILIKE \$6\) ORDER BY created_at DESC, id LIMIT 10 OFFSET 20`).
		WithArgs(domain.AssetStatusAssigned, "LAPTOPS", "%dell%", "%dell%", "%dell%", "%dell%").
		WillReturnRows(assetRow("a1", domain.AssetStatusAssigned, 1).
			AddRow("a2", "Dell Latitude", "", "LAPTOPS", "Dell", "7420", (*time.Time)(nil),
				900.0, (*time.Time)(nil), "", "98765432109", domain.AssetStatusAssigned, 1,
				time.Now(), time.Now()))

	assets, err := NewAssetRepository(mock).List(context.Background(), AssetFilter{
		Status:   domain.AssetStatusAssigned,
		Category: "LAPTOPS",
		Search:   " dell ",
		Limit:    10,
		Offset:   20,
	})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "a2", assets[1].ID)
}

func TestAssetRepository_ListSearchIsLiteral(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	pattern := `%50\%\_off\\%`
	mock.ExpectQuery(`SELECT .+ FROM assets WHERE \(name ILIKE \$1 OR barcode ILIKE \$2 OR manufacturer ILIKE \$3 OR model ILIKE \$4\) ORDER BY created_at DESC, id`).
		WithArgs(pattern, pattern, pattern, pattern).
		WillReturnRows(pgxmock.NewRows(assetColumns))

	assets, err := NewAssetRepository(mock).List(context.Background(), AssetFilter{Search: `50%_off\`})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestContainsPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want string
	}{
		{"dell", "%dell%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`C:\temp`, `%C:\\temp%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsPattern(tt.term), tt.term)
	}
}

func TestAssetRepository_ListEmpty(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM assets ORDER BY created_at DESC, id`).
		WithArgs().
		WillReturnRows(pgxmock.NewRows(assetColumns))

	assets, err := NewAssetRepository(mock).List(context.Background(), AssetFilter{})
	require.NoError(t, err)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)
}

func TestAssetRepository_BarcodeExists(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM assets WHERE barcode=\$1\)`).
		WithArgs("12345678901").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM assets WHERE barcode=\$1 AND id<>\$2\)`).
		WithArgs("12345678901", "a1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewAssetRepository(mock)
	taken, err := repo.BarcodeExists(context.Background(), "12345678901", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.BarcodeExists(context.Background(), "12345678901", "a1")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestAssetRepository_Delete(t *testing.T) {
	t.Parallel()

	mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM assets WHERE id=\$1`).
		WithArgs("a1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM assets WHERE id=\$1`).
		WithArgs("a1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewAssetRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), "a1"))
	err := repo.Delete(context.Background(), "a1")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}
