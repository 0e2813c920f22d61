package domain

import (
	"testing"
	"time"
)

func TestComputeGrowth(t *testing.T) {
	t.Parallel()

	current := StatsSnapshot{TotalAssets: 12, AvailableAssets: 3, AssignedAssets: 8, MaintenanceAssets: 1, EmployeeCoverage: 8}
	baseline := StatsSnapshot{TotalAssets: 10, AvailableAssets: 0, AssignedAssets: 6, MaintenanceAssets: 3, EmployeeCoverage: 7}

	got := ComputeGrowth(current, baseline)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"total", got.TotalAssets, 20.0},
		{"available from zero", got.AvailableAssets, 0},
		{"assigned", got.AssignedAssets, 33.3},
		{"maintenance", got.MaintenanceAssets, -66.7},
		{"coverage", got.EmployeeCoverage, 14.3},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestBaselineExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	if !BaselineExpired(StatsSnapshot{}, now, DefaultBaselineMaxAge) {
		t.Error("zero baseline should be expired")
	}
	if BaselineExpired(StatsSnapshot{CapturedAt: now.Add(-6 * 24 * time.Hour)}, now, DefaultBaselineMaxAge) {
		t.Error("six day old baseline should be fresh")
	}
	if !BaselineExpired(StatsSnapshot{CapturedAt: now.Add(-8 * 24 * time.Hour)}, now, DefaultBaselineMaxAge) {
		t.Error("eight day old baseline should be expired")
	}
}
