package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	mc := NewMetricsCollector()
	mc.IncrementRequests()
	mc.IncrementRequests()
	mc.IncrementErrors()
	mc.AddOperationLatency("create_post", 10*time.Millisecond)
	mc.AddOperationLatency("create_post", 30*time.Millisecond)

	snap := mc.Snapshot()
	assert.Equal(t, uint64(2), snap.Requests)
	assert.Equal(t, uint64(1), snap.Errors)

	stats, ok := snap.Operations["create_post"]
	require.True(t, ok)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 20*time.Millisecond, stats.Avg)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
	assert.Equal(t, 30*time.Millisecond, stats.P95)
}

func TestOperationLatencySamplesAreBounded(t *testing.T) {
	mc := NewMetricsCollector()
	for i := 0; i < MaxLatencySamples+500; i++ {
		mc.AddOperationLatency("get_posts", time.Second)
	}
	for i := 0; i < MaxLatencySamples; i++ {
		mc.AddOperationLatency("get_posts", time.Millisecond)
	}

	assert.Len(t, mc.operationTimes["get_posts"].samples, MaxLatencySamples)

	stats := mc.Snapshot().Operations["get_posts"]
	assert.Equal(t, 2*MaxLatencySamples+500, stats.Count)
	// the older one-second samples have all been overwritten
	assert.Equal(t, time.Millisecond, stats.Max)
	assert.Equal(t, time.Millisecond, stats.Avg)
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	mc := NewMetricsCollector()
	mc.IncrementRequests()
	mc.AddOperationLatency("get_posts", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	mc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hemp_commons_requests_total 1")
	assert.Contains(t, rec.Body.String(), `hemp_commons_operation_duration_seconds_count{operation="get_posts"} 1`)
}
