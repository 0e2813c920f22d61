package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

// MaintenanceService coordinates maintenance ticket workflows.
type MaintenanceService struct {
	tickets    repository.MaintenanceLogRepository
	history    repository.MaintenanceLogHistoryRepository
	assets     repository.AssetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// MaintenanceDependencies bundles repositories for the maintenance service.
type MaintenanceDependencies struct {
	MaintenanceRepo repository.MaintenanceLogRepository
	HistoryRepo     repository.MaintenanceLogHistoryRepository
	AssetRepo       repository.AssetRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Now             func() time.Time
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(deps MaintenanceDependencies) *MaintenanceService {
	return &MaintenanceService{
		tickets:    deps.MaintenanceRepo,
		history:    deps.HistoryRepo,
		assets:     deps.AssetRepo,
		dispatcher: deps.Dispatcher,
		logger:     orNop(deps.Logger),
		now:        orNow(deps.Now),
	}
}

// TicketInput describes a new maintenance ticket.
type TicketInput struct {
	DeviceID    string
	Type        domain.MaintenanceType
	Description string
}

// StatusChange describes a requested ticket status move.
type StatusChange struct {
	Status   domain.MaintenanceStatus
	Override bool
	Comment  string
}

// CreateTicket opens a ticket against an existing asset on behalf of actor.
func (s *MaintenanceService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketInput) (*domain.MaintenanceLog, error) {
	ticket, err := domain.CreateTicket(input.DeviceID, actor.ID, input.Type, input.Description, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.assets.GetByID(ctx, ticket.DeviceID); err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("maintenance log created",
		zap.String("log_id", ticket.ID),
		zap.String("device_id", ticket.DeviceID),
		zap.String("type", ticket.Type.String()))
	publish(ctx, s.dispatcher, events.New(events.EventMaintenanceLogCreated, ticket.DeviceID, actor, events.MaintenanceLogCreatedPayload{
		LogID:  ticket.ID,
		Type:   ticket.Type,
		UserID: ticket.UserID,
	}, s.now()))
	return ticket, nil
}

// AdvanceStatus moves a ticket to its next status.
func (s *MaintenanceService) AdvanceStatus(ctx context.Context, actor domain.Actor, id string, next domain.MaintenanceStatus, comment string) (*domain.MaintenanceLog, error) {
	return s.ChangeStatus(ctx, actor, id, StatusChange{Status: next, Comment: comment})
}

// OverrideStatus moves a ticket forward, skipping intermediate statuses.
func (s *MaintenanceService) OverrideStatus(ctx context.Context, actor domain.Actor, id string, next domain.MaintenanceStatus, comment string) (*domain.MaintenanceLog, error) {
	return s.ChangeStatus(ctx, actor, id, StatusChange{Status: next, Override: true, Comment: comment})
}

// ChangeStatus applies change, writes a history row and emits an event.
func (s *MaintenanceService) ChangeStatus(ctx context.Context, actor domain.Actor, id string, change StatusChange) (*domain.MaintenanceLog, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *domain.MaintenanceLog
	if change.Override {
		updated, err = domain.OverrideStatus(*ticket, change.Status, actor.IsManager(), s.now())
	} else {
		updated, err = domain.AdvanceStatus(*ticket, change.Status, actor.IsManager(), s.now())
	}
	if err != nil {
		return nil, err
	}

	if err := s.tickets.UpdateStatus(ctx, updated, ticket.Status); err != nil {
		return nil, staleOr(err, domain.ReasonStaleTicket, "ticket status changed concurrently")
	}
	entry := domain.NewMaintenanceLogHistory(*ticket, *updated, actor.ID, change.Comment)
	if err := s.history.Create(ctx, &entry); err != nil {
		s.logger.Error("maintenance history write failed", zap.String("log_id", updated.ID), zap.Error(err))
		return nil, &domain.ConflictError{
			Reason:    domain.ReasonPartialWrite,
			Message:   "ticket status changed but its history entry was not stored",
			Committed: []string{"maintenance_log"},
		}
	}

	s.logger.Info("maintenance log status changed",
		zap.String("log_id", updated.ID),
		zap.String("from", ticket.Status.String()),
		zap.String("to", updated.Status.String()),
		zap.Bool("override", change.Override))
	publish(ctx, s.dispatcher, events.New(events.EventMaintenanceLogStatusChanged, updated.DeviceID, actor, events.MaintenanceLogStatusChangedPayload{
		LogID:     updated.ID,
		OldStatus: ticket.Status,
		NewStatus: updated.Status,
		Override:  change.Override,
		Comment:   entry.Comment,
	}, s.now()))
	return updated, nil
}

// Get loads a ticket.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*domain.MaintenanceLog, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListByDevice returns tickets raised against an asset.
func (s *MaintenanceService) ListByDevice(ctx context.Context, deviceID string) ([]domain.MaintenanceLog, error) {
	return s.tickets.List(ctx, repository.MaintenanceLogFilter{DeviceID: deviceID})
}

// ListByUser returns tickets raised by a user.
func (s *MaintenanceService) ListByUser(ctx context.Context, userID string) ([]domain.MaintenanceLog, error) {
	return s.tickets.List(ctx, repository.MaintenanceLogFilter{UserID: userID})
}

// ListAll returns tickets matching filter. Managers only.
func (s *MaintenanceService) ListAll(ctx context.Context, actor domain.Actor, filter repository.MaintenanceLogFilter) ([]domain.MaintenanceLog, error) {
	if err := domain.RequireManager(actor, "list all maintenance logs"); err != nil {
		return nil, err
	}
	return s.tickets.List(ctx, filter)
}

// History returns the status changes of a ticket, oldest first.
func (s *MaintenanceService) History(ctx context.Context, id string) ([]domain.MaintenanceLogHistory, error) {
	if _, err := s.tickets.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByLog(ctx, id)
}
