package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

const (
	uncategorized     = "Uncategorized"
	trendMonths       = 12
	recentAssignments = 5
	daysPerYear       = 365
)

// Age buckets, in report order.
const (
	AgeUnderOneYear  = "Less than 1 year"
	AgeOneToTwo      = "1-2 years"
	AgeTwoToThree    = "2-3 years"
	AgeThreeToFive   = "3-5 years"
	AgeOverFiveYears = "Over 5 years"
	AgeUnknown       = "Unknown"
)

var ageBuckets = []string{AgeUnderOneYear, AgeOneToTwo, AgeTwoToThree, AgeThreeToFive, AgeOverFiveYears, AgeUnknown}

// StatusCount is one row of the status report.
type StatusCount struct {
	Status domain.AssetStatus
	Count  int
}

// CategoryCount is one row of the category report.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryValue is the summed expenditure of a category.
type CategoryValue struct {
	Category string
	Value    float64
}

// AgeCount is one age bucket.
type AgeCount struct {
	AgeGroup string
	Count    int
}

// MonthCount is the number of assignments started in a month.
type MonthCount struct {
	Month string
	Count int
}

// DashboardStats feeds the landing page.
type DashboardStats struct {
	Snapshot          domain.StatsSnapshot
	AssetsByCategory  []CategoryCount
	TotalAssetValue   float64
	RecentAssignments []domain.Assignment
}

// GrowthReport compares the current counters with the stored baseline.
type GrowthReport struct {
	Current  domain.StatsSnapshot
	Baseline domain.StatsSnapshot
	Growth   domain.Growth
}

// ReportService computes dashboard and report aggregates.
type ReportService struct {
	assets         repository.AssetRepository
	assignments    repository.AssignmentRepository
	baselines      BaselineStore
	baselineMaxAge time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	AssetRepo      repository.AssetRepository
	AssignmentRepo repository.AssignmentRepository
	Baselines      BaselineStore
	BaselineMaxAge time.Duration
	Logger         *zap.Logger
	Now            func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	maxAge := deps.BaselineMaxAge
	if maxAge <= 0 {
		maxAge = domain.DefaultBaselineMaxAge
	}
	return &ReportService{
		assets:         deps.AssetRepo,
		assignments:    deps.AssignmentRepo,
		baselines:      deps.Baselines,
		baselineMaxAge: maxAge,
		logger:         orNop(deps.Logger),
		now:            orNow(deps.Now),
	}
}

// Snapshot counts assets per status and active assignments.
func (s *ReportService) Snapshot(ctx context.Context) (domain.StatsSnapshot, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	active, err := s.assignments.List(ctx, repository.AssignmentFilter{ActiveOnly: true})
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	return snapshotOf(assets, len(active), s.now()), nil
}

// Dashboard returns the landing page aggregates.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	active, err := s.assignments.List(ctx, repository.AssignmentFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	recent, err := s.assignments.List(ctx, repository.AssignmentFilter{Limit: recentAssignments})
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, a := range assets {
		total += a.Expenditure
	}
	return &DashboardStats{
		Snapshot:          snapshotOf(assets, len(active), s.now()),
		AssetsByCategory:  countByCategory(assets),
		TotalAssetValue:   total,
		RecentAssignments: recent,
	}, nil
}

// StatusReport counts assets per status, listing every status.
func (s *ReportService) StatusReport(ctx context.Context) ([]StatusCount, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.AssetStatus]int, len(domain.AssetStatuses))
	for _, a := range assets {
		counts[a.Status]++
	}
	out := make([]StatusCount, 0, len(domain.AssetStatuses))
	for _, st := range domain.AssetStatuses {
		out = append(out, StatusCount{Status: st, Count: counts[st]})
	}
	return out, nil
}

// CategoryReport counts assets per category.
func (s *ReportService) CategoryReport(ctx context.Context) ([]CategoryCount, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	return countByCategory(assets), nil
}

// ValueByCategory sums expenditure per category.
func (s *ReportService) ValueByCategory(ctx context.Context) ([]CategoryValue, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	values := map[string]float64{}
	for _, a := range assets {
		values[categoryName(a)] += a.Expenditure
	}
	out := make([]CategoryValue, 0, len(values))
	for name, v := range values {
		out = append(out, CategoryValue{Category: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// AgeReport buckets assets by years since manufacture.
func (s *ReportService) AgeReport(ctx context.Context) ([]AgeCount, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	counts := map[string]int{}
	for _, a := range assets {
		counts[ageBucket(a.Manufactured, now)]++
	}
	out := make([]AgeCount, 0, len(ageBuckets))
	for _, b := range ageBuckets {
		out = append(out, AgeCount{AgeGroup: b, Count: counts[b]})
	}
	return out, nil
}

// AssignmentTrend counts assignments per month over the last twelve months,
// oldest first.
func (s *ReportService) AssignmentTrend(ctx context.Context) ([]MonthCount, error) {
	all, err := s.assignments.List(ctx, repository.AssignmentFilter{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	out := make([]MonthCount, trendMonths)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0).Format("Jan 2006")
	}
	for _, a := range all {
		d := a.AssignedDate
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx >= 0 && idx < trendMonths {
			out[idx].Count++
		}
	}
	return out, nil
}

// Growth compares current counters to the stored baseline. A missing or
// expired baseline is replaced by the current snapshot.
func (s *ReportService) Growth(ctx context.Context) (*GrowthReport, error) {
	current, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.baselines == nil {
		return &GrowthReport{Current: current, Baseline: current}, nil
	}

	baseline, err := s.baselines.Load(ctx)
	if err != nil {
		s.logger.Warn("baseline load failed", zap.Error(err))
		baseline = nil
	}
	if baseline == nil || domain.BaselineExpired(*baseline, current.CapturedAt, s.baselineMaxAge) {
		if err := s.baselines.Save(ctx, current); err != nil {
			s.logger.Warn("baseline save failed", zap.Error(err))
		}
		return &GrowthReport{Current: current, Baseline: current, Growth: domain.ComputeGrowth(current, current)}, nil
	}
	return &GrowthReport{Current: current, Baseline: *baseline, Growth: domain.ComputeGrowth(current, *baseline)}, nil
}

func snapshotOf(assets []domain.Asset, activeAssignments int, now time.Time) domain.StatsSnapshot {
	snap := domain.StatsSnapshot{TotalAssets: len(assets), EmployeeCoverage: activeAssignments, CapturedAt: now}
	for _, a := range assets {
		switch a.Status {
		case domain.AssetStatusAvailable:
			snap.AvailableAssets++
		case domain.AssetStatusAssigned:
			snap.AssignedAssets++
		case domain.AssetStatusMaintenance:
			snap.MaintenanceAssets++
		case domain.AssetStatusRetired:
			snap.RetiredAssets++
		}
	}
	return snap
}

func countByCategory(assets []domain.Asset) []CategoryCount {
	counts := map[string]int{}
	for _, a := range assets {
		counts[categoryName(a)]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, CategoryCount{Category: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func categoryName(a domain.Asset) string {
	if a.Category == "" {
		return uncategorized
	}
	return a.Category
}

func ageBucket(manufactured *time.Time, now time.Time) string {
	if manufactured == nil || manufactured.IsZero() {
		return AgeUnknown
	}
	years := now.Sub(*manufactured).Hours() / 24 / daysPerYear
	switch {
	case years < 1:
		return AgeUnderOneYear
	case years < 2:
		return AgeOneToTwo
	case years < 3:
		return AgeTwoToThree
	case years < 5:
		return AgeThreeToFive
	default:
		return AgeOverFiveYears
	}
}
