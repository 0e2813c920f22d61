package domain

import (
	"math"
	"time"
)

// DefaultBaselineMaxAge is how long a stats baseline stays valid.
const DefaultBaselineMaxAge = 7 * 24 * time.Hour

// StatsSnapshot is a point-in-time copy of the dashboard counters.
type StatsSnapshot struct {
	TotalAssets       int
	AvailableAssets   int
	AssignedAssets    int
	MaintenanceAssets int
	RetiredAssets     int
	EmployeeCoverage  int
	CapturedAt        time.Time
}

// Growth holds percentage change per counter, rounded to one decimal.
type Growth struct {
	TotalAssets       float64
	AvailableAssets   float64
	AssignedAssets    float64
	MaintenanceAssets float64
	RetiredAssets     float64
	EmployeeCoverage  float64
}

// ComputeGrowth compares current against baseline.
func ComputeGrowth(current, baseline StatsSnapshot) Growth {
	return Growth{
		TotalAssets:       growthPercent(current.TotalAssets, baseline.TotalAssets),
		AvailableAssets:   growthPercent(current.AvailableAssets, baseline.AvailableAssets),
		AssignedAssets:    growthPercent(current.AssignedAssets, baseline.AssignedAssets),
		MaintenanceAssets: growthPercent(current.MaintenanceAssets, baseline.MaintenanceAssets),
		RetiredAssets:     growthPercent(current.RetiredAssets, baseline.RetiredAssets),
		EmployeeCoverage:  growthPercent(current.EmployeeCoverage, baseline.EmployeeCoverage),
	}
}

// BaselineExpired reports whether baseline is older than maxAge at now.
func BaselineExpired(baseline StatsSnapshot, now time.Time, maxAge time.Duration) bool {
	if baseline.CapturedAt.IsZero() {
		return true
	}
	return now.Sub(baseline.CapturedAt) > maxAge
}

func growthPercent(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*10) / 10
}
