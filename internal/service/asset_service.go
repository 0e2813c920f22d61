package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

// AssetService coordinates asset lifecycle operations.
type AssetService struct {
	assets      repository.AssetRepository
	assignments repository.AssignmentRepository
	tickets     repository.MaintenanceLogRepository
	categories  repository.CategoryRepository
	cache       AssetCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// AssetDependencies bundles collaborators for the asset service.
type AssetDependencies struct {
	AssetRepo       repository.AssetRepository
	AssignmentRepo  repository.AssignmentRepository
	MaintenanceRepo repository.MaintenanceLogRepository
	CategoryRepo    repository.CategoryRepository
	Cache           AssetCache
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Now             func() time.Time
}

// NewAssetService constructs the service.
func NewAssetService(deps AssetDependencies) *AssetService {
	return &AssetService{
		assets:      deps.AssetRepo,
		assignments: deps.AssignmentRepo,
		tickets:     deps.MaintenanceRepo,
		categories:  deps.CategoryRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      orNop(deps.Logger),
		now:         orNow(deps.Now),
	}
}

// ReconcileIssue describes an asset whose status disagrees with its assignments.
type ReconcileIssue struct {
	AssetID  string
	Barcode  string
	Detail   string
	Repaired bool
}

// Create registers a new asset.
func (s *AssetService) Create(ctx context.Context, actor domain.Actor, candidate domain.Asset) (*domain.Asset, error) {
	if err := domain.RequireManager(actor, "create assets"); err != nil {
		return nil, err
	}
	asset, err := domain.ValidateAssetForCreate(ctx, candidate, s.assets, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	s.logger.Info("asset created", zap.String("asset_id", asset.ID), zap.String("barcode", asset.Barcode))
	s.publishAssetEvent(ctx, events.EventAssetCreated, actor, "", *asset)
	return asset, nil
}

// Get loads an asset by id.
func (s *AssetService) Get(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

// GetByBarcode resolves a scanned barcode, serving from cache when possible.
func (s *AssetService) GetByBarcode(ctx context.Context, barcode string) (*domain.Asset, error) {
	fill := false
	var generation int64
	if s.cache != nil {
		cached, gen, err := s.cache.Get(ctx, barcode)
		switch {
		case err != nil:
			s.logger.Warn("barcode cache read failed", zap.String("barcode", barcode), zap.Error(err))
		case cached != nil:
			return cached, nil
		default:
			fill, generation = true, gen
		}
	}

	asset, err := s.assets.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if fill {
		if err := s.cache.Fill(ctx, *asset, generation); err != nil {
			s.logger.Warn("barcode cache write failed", zap.String("barcode", barcode), zap.Error(err))
		}
	}
	return asset, nil
}

// List returns assets matching filter.
func (s *AssetService) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	return s.assets.List(ctx, filter)
}

// Update applies patch to the asset. A positive expectedVersion must match the
// stored version.
func (s *AssetService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.AssetPatch, expectedVersion int) (*domain.Asset, error) {
	if err := domain.RequireManager(actor, "edit assets"); err != nil {
		return nil, err
	}
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != existing.Version {
		return nil, domain.NewConflictError(domain.ReasonStaleAsset,
			fmt.Sprintf("asset is at version %d, not %d", existing.Version, expectedVersion))
	}

	patch.Reconcile = false
	updated, err := domain.ValidateAssetForUpdate(ctx, *existing, patch, s.assets, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.assets.Update(ctx, updated, existing.Version); err != nil {
		return nil, staleOr(err, domain.ReasonStaleAsset, "asset was modified concurrently")
	}
	s.invalidate(ctx, existing.Barcode, updated.Barcode)
	s.logger.Info("asset updated", zap.String("asset_id", updated.ID), zap.Int("version", updated.Version))
	s.publishAssetEvent(ctx, events.EventAssetUpdated, actor, existing.Status, *updated)
	return updated, nil
}

// Retire moves an asset out of service.
func (s *AssetService) Retire(ctx context.Context, actor domain.Actor, id string) (*domain.Asset, error) {
	if err := domain.RequireManager(actor, "retire assets"); err != nil {
		return nil, err
	}
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.assignments.List(ctx, repository.AssignmentFilter{AssetID: id, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	active, err := domain.FindActiveAssignment(history, id)
	if err != nil {
		return nil, err
	}
	retired, err := domain.RequestRetire(*existing, active, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.assets.Update(ctx, retired, existing.Version); err != nil {
		return nil, staleOr(err, domain.ReasonStaleAsset, "asset was modified concurrently")
	}
	s.invalidate(ctx, retired.Barcode)
	s.logger.Info("asset retired", zap.String("asset_id", retired.ID))
	s.publishAssetEvent(ctx, events.EventAssetRetired, actor, existing.Status, *retired)
	return retired, nil
}

// Delete removes an asset together with its history. The caller must confirm.
func (s *AssetService) Delete(ctx context.Context, actor domain.Actor, id string, confirm bool) error {
	if err := domain.RequireManager(actor, "delete assets"); err != nil {
		return err
	}
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{AssetID: id})
	if err != nil {
		return err
	}
	tickets, err := s.tickets.List(ctx, repository.MaintenanceLogFilter{DeviceID: id})
	if err != nil {
		return err
	}
	if err := domain.CheckDeletable(*asset, assignments, tickets); err != nil {
		return err
	}
	if !confirm {
		return domain.NewConflictError(domain.ReasonConfirmationRequired,
			fmt.Sprintf("deleting removes %d assignments and %d maintenance logs; pass confirm=true", len(assignments), len(tickets)))
	}
	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, asset.Barcode)
	s.logger.Info("asset deleted", zap.String("asset_id", id), zap.Int("assignments", len(assignments)), zap.Int("maintenance_logs", len(tickets)))
	s.publishAssetEvent(ctx, events.EventAssetDeleted, actor, asset.Status, *asset)
	return nil
}

// SeedCategories installs the default categories, returning how many were new.
func (s *AssetService) SeedCategories(ctx context.Context) (int, error) {
	added, err := s.categories.EnsureNames(ctx, domain.DefaultCategories)
	if err != nil {
		return 0, err
	}
	s.logger.Info("categories seeded", zap.Int("added", added))
	return added, nil
}

// ListCategories returns every category.
func (s *AssetService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Reconcile scans every asset for status/assignment disagreements. With repair
// set, assets with zero or one active assignment get their status corrected.
func (s *AssetService) Reconcile(ctx context.Context, repair bool) ([]ReconcileIssue, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	active, err := s.assignments.List(ctx, repository.AssignmentFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	byAsset := make(map[string][]domain.Assignment, len(active))
	for _, a := range active {
		byAsset[a.AssetID] = append(byAsset[a.AssetID], a)
	}

	issues := []ReconcileIssue{}
	for _, asset := range assets {
		checkErr := domain.CheckAssetConsistency(asset, byAsset[asset.ID])
		if checkErr == nil {
			continue
		}
		issue := ReconcileIssue{AssetID: asset.ID, Barcode: asset.Barcode, Detail: checkErr.Error()}
		if repair {
			repaired, err := s.repair(ctx, asset, byAsset[asset.ID])
			if err != nil {
				s.logger.Warn("reconcile repair failed", zap.String("asset_id", asset.ID), zap.Error(err))
			}
			issue.Repaired = repaired
		}
		s.logger.Warn("asset inconsistent", zap.String("asset_id", asset.ID), zap.String("detail", issue.Detail), zap.Bool("repaired", issue.Repaired))
		issues = append(issues, issue)
	}
	return issues, nil
}

func (s *AssetService) repair(ctx context.Context, asset domain.Asset, active []domain.Assignment) (bool, error) {
	var target domain.AssetStatus
	switch {
	case len(active) == 0 && asset.Status == domain.AssetStatusAssigned:
		target = domain.AssetStatusAvailable
	case len(active) == 1 && asset.Status == domain.AssetStatusAvailable:
		target = domain.AssetStatusAssigned
	default:
		return false, nil
	}
	fixed, err := domain.ValidateAssetForUpdate(ctx, asset, domain.AssetPatch{Status: &target, Reconcile: true}, s.assets, s.now())
	if err != nil {
		return false, err
	}
	if err := s.assets.Update(ctx, fixed, asset.Version); err != nil {
		return false, staleOr(err, domain.ReasonStaleAsset, "asset was modified during reconcile")
	}
	s.invalidate(ctx, fixed.Barcode)
	return true, nil
}

func (s *AssetService) invalidate(ctx context.Context, barcodes ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, barcodes...); err != nil {
		s.logger.Warn("barcode cache invalidation failed", zap.Strings("barcodes", barcodes), zap.Error(err))
	}
}

func (s *AssetService) publishAssetEvent(ctx context.Context, typ events.EventType, actor domain.Actor, oldStatus domain.AssetStatus, asset domain.Asset) {
	publish(ctx, s.dispatcher, events.New(typ, asset.ID, actor, events.AssetChangedPayload{
		Name:      asset.Name,
		Barcode:   asset.Barcode,
		OldStatus: oldStatus,
		NewStatus: asset.Status,
		Version:   asset.Version,
	}, s.now()))
}
