package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/api/dto"
	"github.com/spec-kit/asset-inventory/internal/service"
)

// ReportAPI is the report service as used over HTTP.
type ReportAPI interface {
	Dashboard(ctx context.Context) (*service.DashboardStats, error)
	StatusReport(ctx context.Context) ([]service.StatusCount, error)
	CategoryReport(ctx context.Context) ([]service.CategoryCount, error)
	ValueByCategory(ctx context.Context) ([]service.CategoryValue, error)
	AgeReport(ctx context.Context) ([]service.AgeCount, error)
	AssignmentTrend(ctx context.Context) ([]service.MonthCount, error)
	Growth(ctx context.Context) (*service.GrowthReport, error)
}

// ReportsHandler exposes dashboard and report aggregates.
type ReportsHandler struct {
	reports ReportAPI
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports ReportAPI) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewDashboardResponse(*stats))
}

// Status handles GET /reports/status.
func (h *ReportsHandler) Status(c *fiber.Ctx) error {
	rows, err := h.reports.StatusReport(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewStatusCountResponses(rows))
}

// Categories handles GET /reports/categories.
func (h *ReportsHandler) Categories(c *fiber.Ctx) error {
	rows, err := h.reports.CategoryReport(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryCountResponses(rows))
}

// Value handles GET /reports/value.
func (h *ReportsHandler) Value(c *fiber.Ctx) error {
	rows, err := h.reports.ValueByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryValueResponses(rows))
}

// Age handles GET /reports/age.
func (h *ReportsHandler) Age(c *fiber.Ctx) error {
	rows, err := h.reports.AgeReport(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAgeCountResponses(rows))
}

// Assignments handles GET /reports/assignments.
func (h *ReportsHandler) Assignments(c *fiber.Ctx) error {
	rows, err := h.reports.AssignmentTrend(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewMonthCountResponses(rows))
}

// Growth handles GET /reports/growth.
func (h *ReportsHandler) Growth(c *fiber.Ctx) error {
	report, err := h.reports.Growth(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewGrowthReportResponse(*report))
}
