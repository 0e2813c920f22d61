package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

const baselineKey = "inventory:stats:baseline"

// BaselineStore keeps the snapshot dashboard growth is measured against.
type BaselineStore struct {
	kv KV
}

// NewBaselineStore builds a Redis-backed baseline store.
func NewBaselineStore(kv KV) *BaselineStore {
	return &BaselineStore{kv: kv}
}

type baselineRecord struct {
	TotalAssets       int       `json:"total_assets"`
	AvailableAssets   int       `json:"available_assets"`
	AssignedAssets    int       `json:"assigned_assets"`
	MaintenanceAssets int       `json:"maintenance_assets"`
	RetiredAssets     int       `json:"retired_assets"`
	EmployeeCoverage  int       `json:"employee_coverage"`
	CapturedAt        time.Time `json:"captured_at"`
}

// Load returns the stored baseline, or nil when none was saved.
func (s *BaselineStore) Load(ctx context.Context) (*domain.StatsSnapshot, error) {
	raw, err := s.kv.Get(ctx, baselineKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	var rec baselineRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode baseline: %w", err)
	}
	return &domain.StatsSnapshot{
		TotalAssets:       rec.TotalAssets,
		AvailableAssets:   rec.AvailableAssets,
		AssignedAssets:    rec.AssignedAssets,
		MaintenanceAssets: rec.MaintenanceAssets,
		RetiredAssets:     rec.RetiredAssets,
		EmployeeCoverage:  rec.EmployeeCoverage,
		CapturedAt:        rec.CapturedAt,
	}, nil
}

// Save replaces the stored baseline.
func (s *BaselineStore) Save(ctx context.Context, snap domain.StatsSnapshot) error {
	raw, err := json.Marshal(baselineRecord{
		TotalAssets:       snap.TotalAssets,
		AvailableAssets:   snap.AvailableAssets,
		AssignedAssets:    snap.AssignedAssets,
		MaintenanceAssets: snap.MaintenanceAssets,
		RetiredAssets:     snap.RetiredAssets,
		EmployeeCoverage:  snap.EmployeeCoverage,
		CapturedAt:        snap.CapturedAt,
	})
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	return s.kv.Set(ctx, baselineKey, raw, 0).Err()
}
