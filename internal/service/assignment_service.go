package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

const maxReleaseAttempts = 3

// AssignmentService hands assets to employees and takes them back.
type AssignmentService struct {
	assets      repository.AssetRepository
	assignments repository.AssignmentRepository
	employees   repository.EmployeeRepository
	cache       AssetCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	AssetRepo      repository.AssetRepository
	AssignmentRepo repository.AssignmentRepository
	EmployeeRepo   repository.EmployeeRepository
	Cache          AssetCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Now            func() time.Time
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assets:      deps.AssetRepo,
		assignments: deps.AssignmentRepo,
		employees:   deps.EmployeeRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      orNop(deps.Logger),
		now:         orNow(deps.Now),
	}
}

// AssignInput describes a hand-over.
type AssignInput struct {
	AssetID    string
	EmployeeID string
	Date       time.Time
	Notes      string
}

// Assign hands an available asset to an employee. The assignment is written
// first; if the asset write then fails the assignment is removed again.
func (s *AssignmentService) Assign(ctx context.Context, actor domain.Actor, input AssignInput) (*domain.Assignment, *domain.Asset, error) {
	if !actor.CanAssign() {
		return nil, nil, &domain.PermissionError{Action: "assign assets", Role: actor.Role}
	}
	asset, err := s.assets.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, nil, err
	}
	if input.EmployeeID != "" {
		if _, err := s.employees.GetByID(ctx, input.EmployeeID); err != nil {
			return nil, nil, err
		}
	}
	existing, err := s.assignments.List(ctx, repository.AssignmentFilter{AssetID: asset.ID, ActiveOnly: true})
	if err != nil {
		return nil, nil, err
	}

	date := input.Date
	if !date.IsZero() {
		date = dateOnly(date)
	}
	assignment, updated, err := domain.Assign(*asset, domain.AssignRequest{
		EmployeeID: input.EmployeeID,
		ActorID:    actor.ID,
		Date:       date,
		Notes:      input.Notes,
	}, existing, s.now())
	if err != nil {
		return nil, nil, err
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, nil, err
	}
	if err := s.assets.Update(ctx, updated, asset.Version); err != nil {
		if compErr := s.assignments.Delete(ctx, assignment.ID); compErr != nil {
			s.logger.Error("assignment compensation failed",
				zap.String("assignment_id", assignment.ID),
				zap.String("asset_id", asset.ID),
				zap.NamedError("cause", err),
				zap.Error(compErr))
			return nil, nil, &domain.ConflictError{
				Reason:    domain.ReasonPartialWrite,
				Message:   fmt.Sprintf("assignment %s was stored but asset %s was not updated", assignment.ID, asset.ID),
				Committed: []string{"assignment"},
			}
		}
		return nil, nil, staleOr(err, domain.ReasonStaleAsset, "asset was modified concurrently")
	}

	s.invalidate(ctx, updated.Barcode)
	s.logger.Info("asset assigned",
		zap.String("asset_id", updated.ID),
		zap.String("assignment_id", assignment.ID),
		zap.String("employee_id", assignment.EmployeeID))
	publish(ctx, s.dispatcher, events.New(events.EventAssetAssigned, updated.ID, actor, events.AssetAssignedPayload{
		AssignmentID: assignment.ID,
		EmployeeID:   assignment.EmployeeID,
		AssignedDate: assignment.AssignedDate,
	}, s.now()))
	return assignment, updated, nil
}

// Return closes an assignment. A zero returnDate means today.
func (s *AssignmentService) Return(ctx context.Context, actor domain.Actor, assignmentID string, returnDate time.Time) (*domain.Assignment, *domain.Asset, error) {
	if !actor.CanAssign() {
		return nil, nil, &domain.PermissionError{Action: "return assets", Role: actor.Role}
	}
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}
	asset, err := s.assets.GetByID(ctx, assignment.AssetID)
	if err != nil {
		return nil, nil, err
	}

	if returnDate.IsZero() {
		returnDate = s.now()
	}
	closed, updated, err := domain.ReturnAsset(*assignment, *asset, dateOnly(returnDate), s.now())
	if err != nil {
		return nil, nil, err
	}

	if err := s.assignments.Close(ctx, closed); err != nil {
		return nil, nil, staleOr(err, domain.ReasonStaleAssignment, "assignment was returned concurrently")
	}
	updated, err = s.releaseAsset(ctx, updated, asset.Version)
	if err != nil {
		s.logger.Error("asset update after return failed",
			zap.String("assignment_id", closed.ID),
			zap.String("asset_id", asset.ID),
			zap.Error(err))
		return nil, nil, &domain.ConflictError{
			Reason:    domain.ReasonPartialWrite,
			Message:   fmt.Sprintf("assignment %s was closed but asset %s was not updated: %v", closed.ID, asset.ID, err),
			Committed: []string{"assignment"},
		}
	}

	s.invalidate(ctx, updated.Barcode)
	s.logger.Info("asset returned",
		zap.String("asset_id", updated.ID),
		zap.String("assignment_id", closed.ID),
		zap.String("asset_status", updated.Status.String()))
	publish(ctx, s.dispatcher, events.New(events.EventAssetReturned, updated.ID, actor, events.AssetReturnedPayload{
		AssignmentID: closed.ID,
		EmployeeID:   closed.EmployeeID,
		ReturnDate:   *closed.ReturnDate,
		AssetStatus:  updated.Status,
	}, s.now()))
	return closed, updated, nil
}

// releaseAsset writes the released asset. When another writer bumped the
// version in the meantime the asset is reloaded and released again, up to
// maxReleaseAttempts times.
func (s *AssignmentService) releaseAsset(ctx context.Context, asset *domain.Asset, expectedVersion int) (*domain.Asset, error) {
	for attempt := 1; ; attempt++ {
		err := s.assets.Update(ctx, asset, expectedVersion)
		if err == nil {
			return asset, nil
		}
		if !errors.Is(err, repository.ErrPreconditionFailed) || attempt == maxReleaseAttempts {
			return nil, err
		}
		fresh, err := s.assets.GetByID(ctx, asset.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Warn("asset changed during return, retrying",
			zap.String("asset_id", asset.ID),
			zap.Int("expected_version", expectedVersion),
			zap.Int("stored_version", fresh.Version))
		released := domain.ReleaseAsset(*fresh, s.now())
		asset, expectedVersion = &released, fresh.Version
	}
}

// Get loads an assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	return s.assignments.GetByID(ctx, id)
}

// List returns assignments matching filter.
func (s *AssignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]domain.Assignment, error) {
	return s.assignments.List(ctx, filter)
}

// ListForEmployee returns every assignment held, now or before, by an employee.
func (s *AssignmentService) ListForEmployee(ctx context.Context, employeeID string) ([]domain.Assignment, error) {
	return s.assignments.List(ctx, repository.AssignmentFilter{EmployeeID: employeeID})
}

// Recent returns the n most recent assignments.
func (s *AssignmentService) Recent(ctx context.Context, n int) ([]domain.Assignment, error) {
	if n <= 0 {
		n = 5
	}
	return s.assignments.List(ctx, repository.AssignmentFilter{Limit: n})
}

func (s *AssignmentService) invalidate(ctx context.Context, barcode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, barcode); err != nil {
		s.logger.Warn("barcode cache invalidation failed", zap.String("barcode", barcode), zap.Error(err))
	}
}
