package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.RecordRequest("/assets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/assets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/assets", "POST", "CONFLICT")
	m.RecordConflict("duplicate-barcode")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/assets|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMs["/assets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/assets|POST|CONFLICT"])
	assert.Equal(t, int64(1), snap.Conflicts["duplicate-barcode"])
}

func TestMetrics_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest("/health/live", "GET", 200, time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot().Requests["/health/live|GET|200"])
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordConflict("stale-asset")
	assert.Empty(t, m.Snapshot().Requests)
}
