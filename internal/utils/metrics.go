package utils

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxLatencySamples bounds the recent samples kept per operation for
// Snapshot. The Prometheus histogram keeps the full distribution.
const MaxLatencySamples = 1024

// latencyRing holds the most recent samples of one operation.
type latencyRing struct {
	samples []int64
	next    int
	total   int
}

func (r *latencyRing) add(ns int64) {
	r.total++
	if len(r.samples) < MaxLatencySamples {
		r.samples = append(r.samples, ns)
		return
	}
	r.samples[r.next] = ns
	r.next = (r.next + 1) % MaxLatencySamples
}

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to its recent latencies in nanoseconds
	operationTimes map[string]*latencyRing

	systemStartTime time.Time

	registry  *prometheus.Registry
	requests  prometheus.Counter
	errors    prometheus.Counter
	latencies *prometheus.HistogramVec
}

func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{
		operationTimes:  make(map[string]*latencyRing),
		systemStartTime: time.Now(),
		registry:        prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hemp_commons",
			Name:      "requests_total",
			Help:      "Store operations requested.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hemp_commons",
			Name:      "errors_total",
			Help:      "Store operations that returned an error.",
		}),
		latencies: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hemp_commons",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency, including simulated delay.",
			Buckets:   []float64{.01, .05, .1, .25, .3, .5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
	mc.registry.MustRegister(mc.requests, mc.errors, mc.latencies)
	return mc
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
	mc.requests.Inc()
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
	mc.errors.Inc()
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	ring, ok := mc.operationTimes[operationName]
	if !ok {
		ring = &latencyRing{}
		mc.operationTimes[operationName] = ring
	}
	ring.add(duration.Nanoseconds())
	mc.latencies.WithLabelValues(operationName).Observe(duration.Seconds())
}

// OperationStats summarises one operation. Count is the lifetime total; the
// durations cover the most recent MaxLatencySamples calls.
type OperationStats struct {
	Count int           `json:"count"`
	Avg   time.Duration `json:"avg"`
	P95   time.Duration `json:"p95"`
	Max   time.Duration `json:"max"`
}

// Snapshot is a point-in-time copy of the collector.
type Snapshot struct {
	Requests   uint64                    `json:"requests"`
	Errors     uint64                    `json:"errors"`
	Uptime     time.Duration             `json:"uptime"`
	Operations map[string]OperationStats `json:"operations"`
}

func (mc *MetricsCollector) Snapshot() Snapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snap := Snapshot{
		Requests:   mc.requestCount,
		Errors:     mc.errorCount,
		Uptime:     time.Since(mc.systemStartTime),
		Operations: make(map[string]OperationStats, len(mc.operationTimes)),
	}
	for name, ring := range mc.operationTimes {
		if len(ring.samples) == 0 {
			continue
		}
		sorted := append([]int64(nil), ring.samples...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, s := range sorted {
			sum += s
		}
		idx := (len(sorted)*95 + 99) / 100
		if idx > 0 {
			idx--
		}
		snap.Operations[name] = OperationStats{
			Count: ring.total,
			Avg:   time.Duration(sum / int64(len(sorted))),
			P95:   time.Duration(sorted[idx]),
			Max:   time.Duration(sorted[len(sorted)-1]),
		}
	}
	return snap
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}
