package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/api/dto"
	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/repository"
	"github.com/spec-kit/asset-inventory/internal/service"
)

// MaintenanceAPI is the part of the maintenance service used over HTTP.
type MaintenanceAPI interface {
	CreateTicket(ctx context.Context, actor domain.Actor, input service.TicketInput) (*domain.MaintenanceLog, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id string, change service.StatusChange) (*domain.MaintenanceLog, error)
	Get(ctx context.Context, id string) (*domain.MaintenanceLog, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.MaintenanceLog, error)
	ListByUser(ctx context.Context, userID string) ([]domain.MaintenanceLog, error)
	ListAll(ctx context.Context, actor domain.Actor, filter repository.MaintenanceLogFilter) ([]domain.MaintenanceLog, error)
	History(ctx context.Context, id string) ([]domain.MaintenanceLogHistory, error)
}

// MaintenanceHandler exposes maintenance tickets.
type MaintenanceHandler struct {
	maintenance MaintenanceAPI
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(maintenance MaintenanceAPI) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// Create handles POST /maintenance-logs.
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.MaintenanceLogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	ticket, err := h.maintenance.CreateTicket(c.UserContext(), actor, service.TicketInput{
		DeviceID:    req.DeviceID,
		Type:        domain.MaintenanceType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewMaintenanceLogResponse(*ticket))
}

// List handles GET /maintenance-logs?status=&type=.
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	items, err := h.maintenance.ListAll(c.UserContext(), actor, repository.MaintenanceLogFilter{
		DeviceID: c.Query("device_id"),
		Status:   domain.MaintenanceStatus(c.Query("status")),
		Type:     domain.MaintenanceType(c.Query("type")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMaintenanceLogResponses(items))
}

// Mine handles GET /maintenance-logs/mine.
func (h *MaintenanceHandler) Mine(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	items, err := h.maintenance.ListByUser(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMaintenanceLogResponses(items))
}

// Get handles GET /maintenance-logs/:id.
func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.maintenance.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMaintenanceLogResponse(*ticket))
}

// ChangeStatus handles POST /maintenance-logs/:id/status.
func (h *MaintenanceHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	ticket, err := h.maintenance.ChangeStatus(c.UserContext(), actor, c.Params("id"), service.StatusChange{
		Status:   domain.MaintenanceStatus(req.Status),
		Override: req.Override,
		Comment:  req.Comment,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMaintenanceLogResponse(*ticket))
}

// History handles GET /maintenance-logs/:id/history.
func (h *MaintenanceHandler) History(c *fiber.Ctx) error {
	items, err := h.maintenance.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewHistoryResponses(items))
}
