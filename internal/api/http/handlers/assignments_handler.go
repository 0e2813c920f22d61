package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/api/dto"
	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/repository"
	"github.com/spec-kit/asset-inventory/internal/service"
)

// AssignmentAPI is the part of the assignment service used over HTTP.
type AssignmentAPI interface {
	Assign(ctx context.Context, actor domain.Actor, input service.AssignInput) (*domain.Assignment, *domain.Asset, error)
	Return(ctx context.Context, actor domain.Actor, assignmentID string, returnDate time.Time) (*domain.Assignment, *domain.Asset, error)
	List(ctx context.Context, filter repository.AssignmentFilter) ([]domain.Assignment, error)
}

// AssignmentsHandler exposes assign and return.
type AssignmentsHandler struct {
	assignments AssignmentAPI
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignments AssignmentAPI) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// Create handles POST /assignments.
func (h *AssignmentsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.AssetID == "" {
		return domain.NewValidationError("asset_id", "required")
	}
	date, err := dto.ParseDate("assigned_date", req.AssignedDate)
	if err != nil {
		return err
	}
	input := service.AssignInput{AssetID: req.AssetID, EmployeeID: req.EmployeeID, Notes: req.Notes}
	if date != nil {
		input.Date = *date
	}
	assignment, asset, err := h.assignments.Assign(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, fiber.Map{
		"assignment": dto.NewAssignmentResponse(*assignment),
		"asset":      dto.NewAssetResponse(*asset),
	})
}

// Return handles POST /assignments/:id/return. An empty body returns the asset today.
func (h *AssignmentsHandler) Return(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	date, err := dto.ParseDate("return_date", req.ReturnDate)
	if err != nil {
		return err
	}
	var returnDate time.Time
	if date != nil {
		returnDate = *date
	}
	assignment, asset, err := h.assignments.Return(c.UserContext(), actor, c.Params("id"), returnDate)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{
		"assignment": dto.NewAssignmentResponse(*assignment),
		"asset":      dto.NewAssetResponse(*asset),
	})
}

// List handles GET /assignments?asset_id=&employee_id=&active=.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return err
	}
	items, err := h.assignments.List(c.UserContext(), repository.AssignmentFilter{
		AssetID:    c.Query("asset_id"),
		EmployeeID: c.Query("employee_id"),
		ActiveOnly: active,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssignmentResponses(items))
}
