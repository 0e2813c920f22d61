package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/api/dto"
	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

// AssetAPI is the part of the asset service used over HTTP.
type AssetAPI interface {
	Create(ctx context.Context, actor domain.Actor, candidate domain.Asset) (*domain.Asset, error)
	Get(ctx context.Context, id string) (*domain.Asset, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.Asset, error)
	List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch domain.AssetPatch, expectedVersion int) (*domain.Asset, error)
	Retire(ctx context.Context, actor domain.Actor, id string) (*domain.Asset, error)
	Delete(ctx context.Context, actor domain.Actor, id string, confirm bool) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// AssetsHandler exposes the asset catalogue.
type AssetsHandler struct {
	assets      AssetAPI
	assignments AssignmentAPI
	maintenance MaintenanceAPI
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assets AssetAPI, assignments AssignmentAPI, maintenance MaintenanceAPI) *AssetsHandler {
	return &AssetsHandler{assets: assets, assignments: assignments, maintenance: maintenance}
}

// List handles GET /assets.
func (h *AssetsHandler) List(c *fiber.Ctx) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	filter := repository.AssetFilter{
		Status:   domain.AssetStatus(c.Query("status")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return domain.NewValidationError("status", "unknown asset status")
	}
	assets, err := h.assets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssetResponses(assets))
}

// Create handles POST /assets.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.AssetCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	candidate, err := req.ToDomain()
	if err != nil {
		return err
	}
	asset, err := h.assets.Create(c.UserContext(), actor, candidate)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewAssetResponse(*asset))
}

// Get handles GET /assets/:id.
func (h *AssetsHandler) Get(c *fiber.Ctx) error {
	asset, err := h.assets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssetResponse(*asset))
}

// GetByBarcode handles GET /assets/barcode/:code.
func (h *AssetsHandler) GetByBarcode(c *fiber.Ctx) error {
	asset, err := h.assets.GetByBarcode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssetResponse(*asset))
}

// Update handles PATCH /assets/:id. The body must carry the version the client last read.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.AssetUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Version <= 0 {
		return domain.NewValidationError("version", "required")
	}
	patch, err := req.ToPatch()
	if err != nil {
		return err
	}
	asset, err := h.assets.Update(c.UserContext(), actor, c.Params("id"), patch, req.Version)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssetResponse(*asset))
}

// Retire handles POST /assets/:id/retire.
func (h *AssetsHandler) Retire(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	asset, err := h.assets.Retire(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssetResponse(*asset))
}

// Delete handles DELETE /assets/:id?confirm=true.
func (h *AssetsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	confirm, err := queryBool(c, "confirm")
	if err != nil {
		return err
	}
	if err := h.assets.Delete(c.UserContext(), actor, c.Params("id"), confirm); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assignments handles GET /assets/:id/assignments.
func (h *AssetsHandler) Assignments(c *fiber.Ctx) error {
	items, err := h.assignments.List(c.UserContext(), repository.AssignmentFilter{AssetID: c.Params("id")})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAssignmentResponses(items))
}

// MaintenanceLogs handles GET /assets/:id/maintenance-logs.
func (h *AssetsHandler) MaintenanceLogs(c *fiber.Ctx) error {
	items, err := h.maintenance.ListByDevice(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMaintenanceLogResponses(items))
}

// Categories handles GET /categories.
func (h *AssetsHandler) Categories(c *fiber.Ctx) error {
	items, err := h.assets.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryResponses(items))
}
