package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// AssetFilter captures list parameters for assets. Zero values mean no filter.
type AssetFilter struct {
	Status   domain.AssetStatus
	Category string
	Search   string
	Limit    int
	Offset   int
}

// AssetRepository encapsulates asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset, expectedVersion int) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
	BarcodeExists(ctx context.Context, barcode, excludeID string) (bool, error)
}

var assetColumns = []string{
	"id", "name", "description", "category", "manufacturer", "model", "manufactured",
	"asset_expenditure", "warranty_expiry", "notes", "barcode", "status", "version",
	"created_at", "updated_at",
}

type assetRepository struct {
	db DB
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(db DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
        INSERT INTO assets (` + strings.Join(assetColumns, ", ") + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.db.Exec(ctx, query,
		asset.ID,
		asset.Name,
		asset.Description,
		asset.Category,
		asset.Manufacturer,
		asset.Model,
		asset.Manufactured,
		asset.Expenditure,
		asset.WarrantyExpiry,
		asset.Notes,
		asset.Barcode,
		asset.Status,
		asset.Version,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	return mapErr("create asset", err)
}

// Update writes every mutable column when the stored version still equals
// expectedVersion. On success asset.Version holds the new version.
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset, expectedVersion int) error {
	const query = `
        UPDATE assets SET name=$1, description=$2, category=$3, manufacturer=$4, model=$5, manufactured=$6,
            asset_expenditure=$7, warranty_expiry=$8, notes=$9, barcode=$10, status=$11, updated_at=$12,
            version=version+1
        WHERE id=$13 AND version=$14
        RETURNING version`
	err := r.db.QueryRow(ctx, query,
		asset.Name,
		asset.Description,
		asset.Category,
		asset.Manufacturer,
		asset.Model,
		asset.Manufactured,
		asset.Expenditure,
		asset.WarrantyExpiry,
		asset.Notes,
		asset.Barcode,
		asset.Status,
		asset.UpdatedAt,
		asset.ID,
		expectedVersion,
	).Scan(&asset.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPreconditionFailed
	}
	return mapErr("update asset", err)
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return mapErr("delete asset", err)
	}
	if cmd.RowsAffected() == 0 {
		return mapErr("delete asset", pgx.ErrNoRows)
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return r.fetchSingle(ctx, sq.Eq{"id": id})
}

func (r *assetRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Asset, error) {
	return r.fetchSingle(ctx, sq.Eq{"barcode": barcode})
}

func (r *assetRepository) fetchSingle(ctx context.Context, pred sq.Eq) (*domain.Asset, error) {
	query, args, err := psql.Select(assetColumns...).From("assets").Where(pred).ToSql()
	if err != nil {
		return nil, err
	}
	asset, err := scanAsset(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("get asset", err)
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	b := psql.Select(assetColumns...).From("assets")
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Category != "" {
		b = b.Where(sq.Eq{"category": filter.Category})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := containsPattern(s)
		b = b.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"barcode": pattern},
			sq.ILike{"manufacturer": pattern},
			sq.ILike{"model": pattern},
		})
	}
	b = paginate(b.OrderBy("created_at DESC", "id"), filter.Limit, filter.Offset)

	assets, err := queryAll(ctx, r.db, b, func(rows pgx.Rows) (domain.Asset, error) { return scanAsset(rows) })
	return assets, mapErr("list assets", err)
}

func (r *assetRepository) BarcodeExists(ctx context.Context, barcode, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE barcode=$1)`, barcode).Scan(&exists)
	} else {
		err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE barcode=$1 AND id<>$2)`, barcode, excludeID).Scan(&exists)
	}
	if err != nil {
		return false, mapErr("check barcode", err)
	}
	return exists, nil
}

func scanAsset(row pgx.Row) (domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Category,
		&a.Manufacturer,
		&a.Model,
		&a.Manufactured,
		&a.Expenditure,
		&a.WarrantyExpiry,
		&a.Notes,
		&a.Barcode,
		&a.Status,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
