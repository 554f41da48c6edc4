package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "assessment"

// Calculation outcomes reported on assessment_calculations_total.
const (
	OutcomeSuccess   = "success"
	OutcomeForbidden = "forbidden"
	OutcomeNoData    = "no_data"
	OutcomeFailed    = "failed"
)

// MetricsSnapshot is the JSON view of process metrics served to admins.
type MetricsSnapshot struct {
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	CacheHits                uint64            `json:"cache_hits"`
	CacheMisses              uint64            `json:"cache_misses"`
	ProcedureCalls           uint64            `json:"procedure_calls"`
	AverageProcedureMs       float64           `json:"average_procedure_ms"`
	Calculations             map[string]uint64 `json:"calculations"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}

// MetricsService owns the Prometheus registry of the portal and keeps running totals
// for the snapshot endpoint.
type MetricsService struct {
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	cacheLatency        *prometheus.HistogramVec
	procedureDuration   *prometheus.HistogramVec
	calculations        *prometheus.CounterVec
	calculationDuration prometheus.Histogram

	requests       uint64
	requestNanos   uint64
	cacheHits      uint64
	cacheMisses    uint64
	procedureCalls uint64
	procedureNanos uint64
	outcomesMu     sync.Mutex
	outcomeTotals  map[string]uint64
}

// NewMetricsService registers the portal collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "status_cache_lookups_total",
			Help:      "Calculation status cache lookups by result.",
		}, []string{"result"}),
		cacheLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "status_cache_seconds",
			Help:      "Calculation status cache latency by operation.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"op"}),
		procedureDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "procedure_duration_seconds",
			Help:      "Duration of recomputation procedures.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"procedure"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "Average recomputation runs by outcome.",
		}, []string{"outcome"}),
		calculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "calculation_duration_seconds",
			Help:      "Wall time of the concurrent recomputation of a round.",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		outcomeTotals: make(map[string]uint64),
	}

	registry.MustRegister(
		m.requestDuration,
		m.cacheLookups,
		m.cacheLatency,
		m.procedureDuration,
		m.calculations,
		m.calculationDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "goroutines",
			Help:      "Number of live goroutines.",
		}, func() float64 { return float64(runtime.NumGoroutine()) }),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request. route is the matched gin pattern.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
	atomic.AddUint64(&m.requests, 1)
	atomic.AddUint64(&m.requestNanos, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a status cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues("get").Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.cacheHits, 1)
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
	atomic.AddUint64(&m.cacheMisses, 1)
}

// ObserveCacheWrite records a status cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues("set").Observe(duration.Seconds())
}

// ObserveDBQuery records the duration of one recomputation procedure call.
func (m *MetricsService) ObserveDBQuery(procedure string, duration time.Duration) {
	if m == nil {
		return
	}
	m.procedureDuration.WithLabelValues(procedure).Observe(duration.Seconds())
	atomic.AddUint64(&m.procedureCalls, 1)
	atomic.AddUint64(&m.procedureNanos, uint64(duration.Nanoseconds()))
}

// ObserveCalculation records how long the concurrent procedures of one run took.
func (m *MetricsService) ObserveCalculation(duration time.Duration) {
	if m == nil {
		return
	}
	m.calculationDuration.Observe(duration.Seconds())
}

// RecordCalculation counts one trigger invocation by outcome.
func (m *MetricsService) RecordCalculation(outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
	m.outcomesMu.Lock()
	m.outcomeTotals[outcome]++
	m.outcomesMu.Unlock()
}

// Snapshot returns running totals for the admin API.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	snap := MetricsSnapshot{
		RequestsTotal:  atomic.LoadUint64(&m.requests),
		CacheHits:      atomic.LoadUint64(&m.cacheHits),
		CacheMisses:    atomic.LoadUint64(&m.cacheMisses),
		ProcedureCalls: atomic.LoadUint64(&m.procedureCalls),
		Goroutines:     runtime.NumGoroutine(),
		GeneratedAt:    time.Now().UTC(),
	}
	snap.AverageRequestDurationMs = averageMs(atomic.LoadUint64(&m.requestNanos), snap.RequestsTotal)
	snap.AverageProcedureMs = averageMs(atomic.LoadUint64(&m.procedureNanos), snap.ProcedureCalls)

	m.outcomesMu.Lock()
	snap.Calculations = make(map[string]uint64, len(m.outcomeTotals))
	for outcome, n := range m.outcomeTotals {
		snap.Calculations[outcome] = n
	}
	m.outcomesMu.Unlock()
	return snap
}

func averageMs(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
