package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

type maintenanceFixture struct {
	svc        *MaintenanceService
	tickets    *fakeTickets
	history    *fakeHistory
	dispatcher *recordingDispatcher
}

func newMaintenanceFixture() maintenanceFixture {
	f := maintenanceFixture{
		tickets:    newFakeTickets(),
		history:    &fakeHistory{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewMaintenanceService(MaintenanceDependencies{
		MaintenanceRepo: f.tickets,
		HistoryRepo:     f.history,
		AssetRepo:       newFakeAssets(availableAsset("a1", "11111111111")),
		Dispatcher:      f.dispatcher,
		Now:             fixedNow,
	})
	return f
}

func TestMaintenanceService_CreateTicket(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMalfunction})
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceStatusOpen, ticket.Status)
	assert.Equal(t, "e1", ticket.UserID)
	assert.Equal(t, []events.EventType{events.EventMaintenanceLogCreated}, f.dispatcher.types())

	_, err = f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMisc, Description: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "ghost", Type: domain.MaintenanceTypeMaintenance})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaintenanceService_Lifecycle(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMaintenance})
	require.NoError(t, err)

	_, err = f.svc.AdvanceStatus(ctx, technician, ticket.ID, domain.MaintenanceStatusInProgress, "")
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = f.svc.AdvanceStatus(ctx, manager, ticket.ID, domain.MaintenanceStatusResolved, "")
	assert.ErrorIs(t, err, domain.ErrTransition)

	for _, next := range []domain.MaintenanceStatus{
		domain.MaintenanceStatusInProgress,
		domain.MaintenanceStatusResolved,
		domain.MaintenanceStatusClosed,
	} {
		updated, err := f.svc.AdvanceStatus(ctx, manager, ticket.ID, next, "step")
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err = f.svc.AdvanceStatus(ctx, manager, ticket.ID, domain.MaintenanceStatusOpen, "")
	assert.ErrorIs(t, err, domain.ErrTransition)

	history, err := f.svc.History(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.MaintenanceStatusOpen, history[0].OldStatus)
	assert.Equal(t, domain.MaintenanceStatusClosed, history[2].NewStatus)
	assert.Equal(t, "m1", history[2].ChangedBy)
}

func TestMaintenanceService_Override(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMaintenance})
	require.NoError(t, err)

	closed, err := f.svc.OverrideStatus(ctx, manager, ticket.ID, domain.MaintenanceStatusClosed, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceStatusClosed, closed.Status)

	_, err = f.svc.ChangeStatus(ctx, manager, ticket.ID, StatusChange{Status: domain.MaintenanceStatusResolved, Override: true})
	assert.ErrorIs(t, err, domain.ErrTransition)
}

func TestMaintenanceService_StaleAndPartial(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMaintenance})
	require.NoError(t, err)

	stale := f.tickets.byID[ticket.ID]
	advanced := stale
	advanced.Status = domain.MaintenanceStatusInProgress
	f.tickets.byID[ticket.ID] = advanced

	svc := NewMaintenanceService(MaintenanceDependencies{
		MaintenanceRepo: staleReads{fakeTickets: f.tickets, snapshot: stale},
		HistoryRepo:     f.history,
		AssetRepo:       newFakeAssets(),
		Now:             fixedNow,
	})
	_, err = svc.AdvanceStatus(ctx, manager, ticket.ID, domain.MaintenanceStatusInProgress, "")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ReasonStaleTicket, conflict.Reason)

	f.history.createErr = errors.New("disk full")
	_, err = f.svc.AdvanceStatus(ctx, manager, ticket.ID, domain.MaintenanceStatusResolved, "")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ReasonPartialWrite, conflict.Reason)
}

// staleReads serves an outdated copy of a ticket, as a reader racing another writer would.
type staleReads struct {
	*fakeTickets
	snapshot domain.MaintenanceLog
}

func (s staleReads) GetByID(context.Context, string) (*domain.MaintenanceLog, error) {
	t := s.snapshot
	return &t, nil
}

func TestMaintenanceService_Listing(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	ctx := context.Background()

	_, err := f.svc.CreateTicket(ctx, employee, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMaintenance})
	require.NoError(t, err)
	_, err = f.svc.CreateTicket(ctx, technician, TicketInput{DeviceID: "a1", Type: domain.MaintenanceTypeMalfunction})
	require.NoError(t, err)

	mine, err := f.svc.ListByUser(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	device, err := f.svc.ListByDevice(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, device, 2)

	_, err = f.svc.ListAll(ctx, employee, repository.MaintenanceLogFilter{})
	assert.ErrorIs(t, err, domain.ErrPermission)

	malfunctions, err := f.svc.ListAll(ctx, manager, repository.MaintenanceLogFilter{Type: domain.MaintenanceTypeMalfunction})
	require.NoError(t, err)
	assert.Len(t, malfunctions, 1)
}
