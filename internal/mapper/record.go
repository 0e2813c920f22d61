// Package mapper converts between untyped persistence records and domain entities.
package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// Record is an entity in its persistence shape, keyed by snake_case attribute names.
type Record map[string]any

// reader pulls typed values out of a Record, keeping the first failure.
type reader struct {
	entity string
	id     string
	rec    Record
	err    error
}

func newReader(entity string, rec Record) *reader {
	r := &reader{entity: entity, rec: rec}
	if id, ok := rec["id"].(string); ok {
		r.id = id
	}
	return r
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = &domain.DataIntegrityError{Entity: r.entity, ID: r.id, Detail: fmt.Sprintf(format, args...)}
	}
}

func (r *reader) value(key string, required bool) (any, bool) {
	v, ok := r.rec[key]
	if !ok || v == nil {
		if required {
			r.fail("missing field %s", key)
		}
		return nil, false
	}
	return v, true
}

func (r *reader) str(key string, required bool) string {
	v, ok := r.value(key, required)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail("field %s: expected string, got %T", key, v)
		return ""
	}
	if required && s == "" {
		r.fail("missing field %s", key)
	}
	return s
}

func (r *reader) timestamp(key string, required bool) *time.Time {
	v, ok := r.value(key, required)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
		r.fail("field %s: invalid time %q", key, t)
	default:
		r.fail("field %s: expected time, got %T", key, v)
	}
	return nil
}

func (r *reader) requiredTime(key string) time.Time {
	if t := r.timestamp(key, true); t != nil {
		return *t
	}
	return time.Time{}
}

func (r *reader) float(key string, required bool) float64 {
	v, ok := r.value(key, required)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			r.fail("field %s: %v", key, err)
		}
		return f
	}
	r.fail("field %s: expected number, got %T", key, v)
	return 0
}

func (r *reader) integer(key string, required bool) int {
	f := r.float(key, required)
	if f != math.Trunc(f) {
		r.fail("field %s: expected integer, got %v", key, f)
		return 0
	}
	return int(f)
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
