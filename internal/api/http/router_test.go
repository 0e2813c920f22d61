package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/api/http/handlers"
	"github.com/spec-kit/asset-inventory/internal/auth"
	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/observability"
	"github.com/spec-kit/asset-inventory/internal/repository"
	"github.com/spec-kit/asset-inventory/internal/service"
)

var (
	managerUser    = &domain.User{ID: "m1", Name: "Maria", Email: "maria@example.com", Role: domain.UserRoleManager}
	technicianUser = &domain.User{ID: "t1", Name: "Tom", Email: "tom@example.com", Role: domain.UserRoleTechnician}
	employeeUser   = &domain.User{ID: "e1", Name: "Eve", Email: "eve@example.com", Role: domain.UserRoleEmployee}
)

type userDirectory map[string]*domain.User

func (d userDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubAuth struct {
	handlers.AuthAPI
	session *service.Session
}

func (s stubAuth) Register(_ context.Context, name, email, _ string) (*service.Session, error) {
	return s.session, nil
}

type stubUsers struct {
	handlers.UserAPI
}

type stubAssets struct {
	handlers.AssetAPI
	asset      *domain.Asset
	updateErr  error
	deleteSeen *[]bool
}

func (s stubAssets) GetByBarcode(_ context.Context, barcode string) (*domain.Asset, error) {
	if s.asset == nil || s.asset.Barcode != barcode {
		return nil, domain.ErrNotFound
	}
	return s.asset, nil
}

func (s stubAssets) List(_ context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	return []domain.Asset{*s.asset}, nil
}

func (s stubAssets) Update(_ context.Context, _ domain.Actor, _ string, _ domain.AssetPatch, _ int) (*domain.Asset, error) {
	return nil, s.updateErr
}

func (s stubAssets) Delete(_ context.Context, _ domain.Actor, _ string, confirm bool) error {
	*s.deleteSeen = append(*s.deleteSeen, confirm)
	if !confirm {
		return domain.NewConflictError(domain.ReasonConfirmationRequired, "deleting an asset must be confirmed")
	}
	return nil
}

type stubAssignments struct {
	handlers.AssignmentAPI
	asset *domain.Asset
	input *service.AssignInput
}

func (s stubAssignments) Assign(_ context.Context, actor domain.Actor, input service.AssignInput) (*domain.Assignment, *domain.Asset, error) {
	*s.input = input
	assigned := *s.asset
	assigned.Status = domain.AssetStatusAssigned
	return &domain.Assignment{
		ID:           "as1",
		AssetID:      input.AssetID,
		EmployeeID:   input.EmployeeID,
		AssignedBy:   actor.ID,
		AssignedDate: input.Date,
	}, &assigned, nil
}

type stubMaintenance struct {
	handlers.MaintenanceAPI
	change *service.StatusChange
}

func (s stubMaintenance) ChangeStatus(_ context.Context, _ domain.Actor, id string, change service.StatusChange) (*domain.MaintenanceLog, error) {
	*s.change = change
	return &domain.MaintenanceLog{ID: id, DeviceID: "a1", Status: change.Status, Type: domain.MaintenanceTypeMalfunction}, nil
}

type stubReports struct {
	handlers.ReportAPI
}

func (stubReports) Growth(context.Context) (*service.GrowthReport, error) {
	return &service.GrowthReport{
		Current:  domain.StatsSnapshot{TotalAssets: 12},
		Baseline: domain.StatsSnapshot{TotalAssets: 10},
		Growth:   domain.Growth{TotalAssets: 20},
	}, nil
}

type testServer struct {
	app         *fiber.App
	tokens      *auth.TokenManager
	metrics     *observability.Metrics
	deletes     []bool
	assignInput service.AssignInput
	change      service.StatusChange
}

func newTestServer(t *testing.T, assets stubAssets, ready error) *testServer {
	t.Helper()

	ts := &testServer{
		tokens:  auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour),
		metrics: observability.NewMetrics(),
	}
	if assets.asset == nil {
		assets.asset = &domain.Asset{ID: "a1", Name: "Dell XPS 13", Barcode: "12345678901", Status: domain.AssetStatusAvailable, Version: 1}
	}
	assets.deleteSeen = &ts.deletes

	app := fiber.New()
	logger := zap.NewNop()
	RegisterMiddlewares(app, logger, ts.metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("asset-inventory", "test", stubPinger{}, stubPinger{err: ready}, ts.metrics),
		Users: handlers.NewUsersHandler(stubAuth{session: &service.Session{
			User:      employeeUser,
			Token:     "issued-token",
			ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		}}, stubUsers{}),
		Assets:         handlers.NewAssetsHandler(assets, stubAssignments{}, stubMaintenance{}),
		Assignments:    handlers.NewAssignmentsHandler(stubAssignments{asset: assets.asset, input: &ts.assignInput}),
		Maintenance:    handlers.NewMaintenanceHandler(stubMaintenance{change: &ts.change}),
		Reports:        handlers.NewReportsHandler(stubReports{}),
		AuthMiddleware: auth.NewAuthMiddleware(ts.tokens, userDirectory{"m1": managerUser, "t1": technicianUser, "e1": employeeUser}),
	})
	ts.app = app
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, user *domain.User, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if user != nil {
		token, _, err := ts.tokens.GenerateToken(user.ID, user.Role)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := ts.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	}
	return resp.StatusCode, payload
}

func errorCode(payload map[string]any) string {
	errBody, _ := payload["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodGet, "/health/live", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = ts.do(t, nethttp.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = ts.do(t, nethttp.MethodGet, "/health/metrics", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	requests := body["data"].(map[string]any)["requests"].(map[string]any)
	assert.NotEmpty(t, requests)

	down := newTestServer(t, stubAssets{}, errors.New("connection refused"))
	status, body = down.do(t, nethttp.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
}

func TestRoutes_Authorization(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	tests := []struct {
		name   string
		method string
		path   string
		user   *domain.User
		body   string
		status int
		code   string
	}{
		{"anonymous list", nethttp.MethodGet, "/assets", nil, "", nethttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"employee creates asset", nethttp.MethodPost, "/assets", employeeUser, `{"name":"x"}`, nethttp.StatusForbidden, "FORBIDDEN"},
		{"employee assigns", nethttp.MethodPost, "/assignments", employeeUser, `{"asset_id":"a1"}`, nethttp.StatusForbidden, "FORBIDDEN"},
		{"technician lists users", nethttp.MethodGet, "/users", technicianUser, "", nethttp.StatusForbidden, "FORBIDDEN"},
		{"technician changes ticket status", nethttp.MethodPost, "/maintenance-logs/l1/status", technicianUser, `{"status":"closed"}`, nethttp.StatusForbidden, "FORBIDDEN"},
		{"employee lists", nethttp.MethodGet, "/assets", employeeUser, "", nethttp.StatusOK, ""},
		{"anonymous me", nethttp.MethodGet, "/me", nil, "", nethttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"anonymous categories", nethttp.MethodGet, "/categories", nil, "", nethttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"anonymous unknown route", nethttp.MethodGet, "/no-such-route", nil, "", nethttp.StatusNotFound, "NOT_FOUND"},
		{"signed in unknown route", nethttp.MethodGet, "/no-such-route", managerUser, "", nethttp.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, status)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(body))
			}
		})
	}
}

func TestRoutes_Register(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodPost, "/auth/register", nil, `{"name":"Eve","email":"eve@example.com","password":"password1"}`)
	require.Equal(t, nethttp.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "issued-token", data["auth"].(map[string]any)["token"])
	assert.Equal(t, "EMPLOYEE", data["user"].(map[string]any)["role"])

	status, body = ts.do(t, nethttp.MethodPost, "/auth/register", nil, `{"email":"eve@example.com"}`)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_BarcodeLookup(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodGet, "/assets/barcode/12345678901", employeeUser, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "a1", body["data"].(map[string]any)["id"])

	status, body = ts.do(t, nethttp.MethodGet, "/assets/barcode/00000000000", employeeUser, "")
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestRoutes_UpdateConflict(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{updateErr: domain.NewConflictError(domain.ReasonStaleAsset, "asset was modified concurrently")}, nil)

	status, body := ts.do(t, nethttp.MethodPatch, "/assets/a1", managerUser, `{"name":"Renamed"}`)
	assert.Equal(t, nethttp.StatusBadRequest, status, "version is required")
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = ts.do(t, nethttp.MethodPatch, "/assets/a1", managerUser, `{"name":"Renamed","version":1}`)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "stale-asset", details["reason"])
	assert.Equal(t, int64(1), ts.metrics.Snapshot().Conflicts["stale-asset"])

	status, body = ts.do(t, nethttp.MethodPatch, "/assets/a1", managerUser, `{"manufactured":"last spring","version":1}`)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_DeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodDelete, "/assets/a1", managerUser, "")
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "confirmation-required", body["error"].(map[string]any)["details"].(map[string]any)["reason"])

	status, _ = ts.do(t, nethttp.MethodDelete, "/assets/a1?confirm=true", managerUser, "")
	assert.Equal(t, nethttp.StatusNoContent, status)
	assert.Equal(t, []bool{false, true}, ts.deletes)

	status, _ = ts.do(t, nethttp.MethodDelete, "/assets/a1?confirm=maybe", managerUser, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestRoutes_Assign(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodPost, "/assignments", technicianUser,
		`{"asset_id":"a1","employee_id":"E1","assigned_date":"2024-06-15","notes":"onboarding"}`)
	require.Equal(t, nethttp.StatusCreated, status)

	assert.Equal(t, "E1", ts.assignInput.EmployeeID)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), ts.assignInput.Date)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2024-06-15", data["assignment"].(map[string]any)["assigned_date"])
	assert.Equal(t, true, data["assignment"].(map[string]any)["active"])
	assert.Equal(t, "ASSIGNED", data["asset"].(map[string]any)["status"])
}

func TestRoutes_ChangeTicketStatus(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodPost, "/maintenance-logs/l1/status", managerUser,
		`{"status":"resolved","override":true,"comment":"fixed on site"}`)
	require.Equal(t, nethttp.StatusOK, status)

	assert.Equal(t, service.StatusChange{Status: domain.MaintenanceStatusResolved, Override: true, Comment: "fixed on site"}, ts.change)
	data := body["data"].(map[string]any)
	assert.Equal(t, "resolved", data["status"])
	assert.Equal(t, "closed", data["next_status"])
}

func TestRoutes_Growth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, stubAssets{}, nil)
	status, body := ts.do(t, nethttp.MethodGet, "/reports/growth", employeeUser, "")
	require.Equal(t, nethttp.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(12), data["current"].(map[string]any)["total_assets"])
	assert.Equal(t, float64(20), data["growth"].(map[string]any)["total_assets"])
}
