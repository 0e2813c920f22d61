package dto

import (
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/service"
)

// SnapshotResponse is the JSON view of the dashboard counters.
type SnapshotResponse struct {
	TotalAssets       int       `json:"total_assets"`
	AvailableAssets   int       `json:"available_assets"`
	AssignedAssets    int       `json:"assigned_assets"`
	MaintenanceAssets int       `json:"maintenance_assets"`
	RetiredAssets     int       `json:"retired_assets"`
	EmployeeCoverage  int       `json:"employee_coverage"`
	CapturedAt        time.Time `json:"captured_at"`
}

// NewSnapshotResponse maps a snapshot.
func NewSnapshotResponse(s domain.StatsSnapshot) SnapshotResponse {
	return SnapshotResponse{
		TotalAssets:       s.TotalAssets,
		AvailableAssets:   s.AvailableAssets,
		AssignedAssets:    s.AssignedAssets,
		MaintenanceAssets: s.MaintenanceAssets,
		RetiredAssets:     s.RetiredAssets,
		EmployeeCoverage:  s.EmployeeCoverage,
		CapturedAt:        s.CapturedAt,
	}
}

// GrowthResponse carries percentage change per counter.
type GrowthResponse struct {
	TotalAssets       float64 `json:"total_assets"`
	AvailableAssets   float64 `json:"available_assets"`
	AssignedAssets    float64 `json:"assigned_assets"`
	MaintenanceAssets float64 `json:"maintenance_assets"`
	RetiredAssets     float64 `json:"retired_assets"`
	EmployeeCoverage  float64 `json:"employee_coverage"`
}

// NewGrowthResponse maps growth figures.
func NewGrowthResponse(g domain.Growth) GrowthResponse {
	return GrowthResponse{
		TotalAssets:       g.TotalAssets,
		AvailableAssets:   g.AvailableAssets,
		AssignedAssets:    g.AssignedAssets,
		MaintenanceAssets: g.MaintenanceAssets,
		RetiredAssets:     g.RetiredAssets,
		EmployeeCoverage:  g.EmployeeCoverage,
	}
}

// StatusCountResponse is one row of the status report.
type StatusCountResponse struct {
	Status domain.AssetStatus `json:"status"`
	Count  int                `json:"count"`
}

// NewStatusCountResponses maps the status report.
func NewStatusCountResponses(rows []service.StatusCount) []StatusCountResponse {
	out := make([]StatusCountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, StatusCountResponse{Status: r.Status, Count: r.Count})
	}
	return out
}

// CategoryCountResponse is one row of the category report.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// NewCategoryCountResponses maps the category report.
func NewCategoryCountResponses(rows []service.CategoryCount) []CategoryCountResponse {
	out := make([]CategoryCountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryCountResponse{Category: r.Category, Count: r.Count})
	}
	return out
}

// CategoryValueResponse is the summed expenditure of a category.
type CategoryValueResponse struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// NewCategoryValueResponses maps the value report.
func NewCategoryValueResponses(rows []service.CategoryValue) []CategoryValueResponse {
	out := make([]CategoryValueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryValueResponse{Category: r.Category, Value: r.Value})
	}
	return out
}

// AgeCountResponse is one age bucket.
type AgeCountResponse struct {
	AgeGroup string `json:"age_group"`
	Count    int    `json:"count"`
}

// NewAgeCountResponses maps the age report.
func NewAgeCountResponses(rows []service.AgeCount) []AgeCountResponse {
	out := make([]AgeCountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, AgeCountResponse{AgeGroup: r.AgeGroup, Count: r.Count})
	}
	return out
}

// MonthCountResponse is one month of the assignment trend.
type MonthCountResponse struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// NewMonthCountResponses maps the assignment trend.
func NewMonthCountResponses(rows []service.MonthCount) []MonthCountResponse {
	out := make([]MonthCountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, MonthCountResponse{Month: r.Month, Count: r.Count})
	}
	return out
}

// DashboardResponse feeds the landing page.
type DashboardResponse struct {
	Stats             SnapshotResponse        `json:"stats"`
	AssetsByCategory  []CategoryCountResponse `json:"assets_by_category"`
	TotalAssetValue   float64                 `json:"total_asset_value"`
	RecentAssignments []AssignmentResponse    `json:"recent_assignments"`
}

// NewDashboardResponse maps dashboard stats.
func NewDashboardResponse(d service.DashboardStats) DashboardResponse {
	return DashboardResponse{
		Stats:             NewSnapshotResponse(d.Snapshot),
		AssetsByCategory:  NewCategoryCountResponses(d.AssetsByCategory),
		TotalAssetValue:   d.TotalAssetValue,
		RecentAssignments: NewAssignmentResponses(d.RecentAssignments),
	}
}

// GrowthReportResponse compares current counters with the stored baseline.
type GrowthReportResponse struct {
	Current  SnapshotResponse `json:"current"`
	Baseline SnapshotResponse `json:"baseline"`
	Growth   GrowthResponse   `json:"growth"`
}

// NewGrowthReportResponse maps a growth report.
func NewGrowthReportResponse(g service.GrowthReport) GrowthReportResponse {
	return GrowthReportResponse{
		Current:  NewSnapshotResponse(g.Current),
		Baseline: NewSnapshotResponse(g.Baseline),
		Growth:   NewGrowthResponse(g.Growth),
	}
}
