package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/api/http/handlers"
	"github.com/spec-kit/asset-inventory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Assets         *handlers.AssetsHandler
	Assignments    *handlers.AssignmentsHandler
	Maintenance    *handlers.MaintenanceHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := func(prefix string) fiber.Router {
		return app.Group(prefix, cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	}
	manager := auth.RequireManager()
	assigner := auth.RequireAssigner()

	protected("/me").Get("/", cfg.Users.Me)

	users := protected("/users")
	users.Get("/", manager, cfg.Users.ListUsers)
	users.Patch("/:id/role", manager, cfg.Users.ChangeRole)

	employees := protected("/employees")
	employees.Get("/", cfg.Users.ListEmployees)
	employees.Post("/", manager, cfg.Users.CreateEmployee)
	employees.Get("/:id", cfg.Users.GetEmployee)

	protected("/categories").Get("/", cfg.Assets.Categories)

	assets := protected("/assets")
	assets.Get("/", cfg.Assets.List)
	assets.Post("/", manager, cfg.Assets.Create)
	assets.Get("/barcode/:code", cfg.Assets.GetByBarcode)
	assets.Get("/:id", cfg.Assets.Get)
	assets.Patch("/:id", manager, cfg.Assets.Update)
	assets.Delete("/:id", manager, cfg.Assets.Delete)
	assets.Post("/:id/retire", manager, cfg.Assets.Retire)
	assets.Get("/:id/assignments", cfg.Assets.Assignments)
	assets.Get("/:id/maintenance-logs", cfg.Assets.MaintenanceLogs)

	assignments := protected("/assignments")
	assignments.Get("/", cfg.Assignments.List)
	assignments.Post("/", assigner, cfg.Assignments.Create)
	assignments.Post("/:id/return", assigner, cfg.Assignments.Return)

	tickets := protected("/maintenance-logs")
	tickets.Post("/", cfg.Maintenance.Create)
	tickets.Get("/", manager, cfg.Maintenance.List)
	tickets.Get("/mine", cfg.Maintenance.Mine)
	tickets.Get("/:id", cfg.Maintenance.Get)
	tickets.Get("/:id/history", cfg.Maintenance.History)
	tickets.Post("/:id/status", manager, cfg.Maintenance.ChangeStatus)

	reports := protected("/reports")
	reports.Get("/dashboard", cfg.Reports.Dashboard)
	reports.Get("/status", cfg.Reports.Status)
	reports.Get("/categories", cfg.Reports.Categories)
	reports.Get("/value", cfg.Reports.Value)
	reports.Get("/age", cfg.Reports.Age)
	reports.Get("/assignments", cfg.Reports.Assignments)
	reports.Get("/growth", cfg.Reports.Growth)
}
