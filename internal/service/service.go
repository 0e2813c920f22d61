package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

// AssetCache caches scanner lookups. Implemented by cache.AssetCache.
type AssetCache interface {
	Get(ctx context.Context, barcode string) (*domain.Asset, int64, error)
	Fill(ctx context.Context, asset domain.Asset, generation int64) error
	Invalidate(ctx context.Context, barcodes ...string) error
}

// BaselineStore persists the growth baseline. Implemented by cache.BaselineStore.
type BaselineStore interface {
	Load(ctx context.Context) (*domain.StatsSnapshot, error)
	Save(ctx context.Context, snap domain.StatsSnapshot) error
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return now
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

// staleOr translates a failed precondition into a stale-* conflict.
func staleOr(err error, reason domain.ConflictReason, message string) error {
	if errors.Is(err, repository.ErrPreconditionFailed) {
		return domain.NewConflictError(reason, message)
	}
	return err
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
