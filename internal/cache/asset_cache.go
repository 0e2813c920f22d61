package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/mapper"
)

const (
	barcodeKeyPrefix    = "inventory:asset:barcode:"
	generationKeyPrefix = "inventory:asset:generation:"
)

// AssetCache caches scanner lookups by barcode.
//
// Every barcode has a generation counter that writers bump after they commit.
// An entry is only served while its generation is current, so a reader that
// loaded the asset before a concurrent write cannot publish the stale copy.
type AssetCache struct {
	kv  KV
	ttl time.Duration
}

type cachedAsset struct {
	Generation int64         `json:"generation"`
	Asset      mapper.Record `json:"asset"`
}

// NewAssetCache builds a cache whose entries expire after ttl.
func NewAssetCache(kv KV, ttl time.Duration) *AssetCache {
	return &AssetCache{kv: kv, ttl: ttl}
}

// Get returns the cached asset for barcode together with the barcode's
// current generation. A miss returns a nil asset; the generation must then be
// handed to Fill.
func (c *AssetCache) Get(ctx context.Context, barcode string) (*domain.Asset, int64, error) {
	generation, err := c.generation(ctx, barcode)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.kv.Get(ctx, barcodeKeyPrefix+barcode).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, generation, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("cache get: %w", err)
	}

	var entry cachedAsset
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, 0, fmt.Errorf("cache decode: %w", err)
	}
	if entry.Generation != generation {
		return nil, generation, nil
	}
	asset, err := mapper.AssetFromRecord(entry.Asset)
	if err != nil {
		return nil, 0, err
	}
	return &asset, generation, nil
}

// Fill stores asset under its barcode, tagged with the generation observed
// by the Get that missed.
func (c *AssetCache) Fill(ctx context.Context, asset domain.Asset, generation int64) error {
	raw, err := json.Marshal(cachedAsset{Generation: generation, Asset: mapper.AssetToRecord(asset)})
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.kv.Set(ctx, barcodeKeyPrefix+asset.Barcode, raw, c.ttl).Err()
}

// Invalidate bumps the generation of the given barcodes and drops their entries.
func (c *AssetCache) Invalidate(ctx context.Context, barcodes ...string) error {
	keys := make([]string, 0, len(barcodes))
	for _, b := range barcodes {
		if b == "" {
			continue
		}
		if err := c.kv.Incr(ctx, generationKeyPrefix+b).Err(); err != nil {
			return fmt.Errorf("cache bump generation: %w", err)
		}
		keys = append(keys, barcodeKeyPrefix+b)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.kv.Del(ctx, keys...).Err()
}

func (c *AssetCache) generation(ctx context.Context, barcode string) (int64, error) {
	generation, err := c.kv.Get(ctx, generationKeyPrefix+barcode).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return generation, nil
}
