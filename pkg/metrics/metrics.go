package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "compliance"

	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"

	unmatchedRoute = "unmatched"
)

// Metrics holds request counters and authorization outcomes.
// Thread-safe via atomics and mutex.
type Metrics struct {
	totalRequests  int64
	activeRequests int64
	totalErrors    int64
	totalLatencyMs int64
	maxLatencyMs   int64
	allowed        int64
	denied         int64

	startTime      time.Time
	endpointCounts map[string]int64
	statusCodes    map[int]int64
	deniedByRule   map[string]int64
	mu             sync.Mutex
	now            func() time.Time

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

// New builds the collector. When reg is non-nil the Prometheus series are
// registered on it as well.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		startTime:      time.Now(),
		endpointCounts: make(map[string]int64),
		statusCodes:    make(map[int]int64),
		deniedByRule:   make(map[string]int64),
		now:            time.Now,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "decisions_total",
			Help:      "Route-level authorization decisions by requirement and outcome.",
		}, []string{"requirement", "outcome"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.latency, m.decisions} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Middleware tracks request count, latency, in-flight requests and error rates.
// The endpoint key uses the route pattern so path parameters do not explode
// the map.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.activeRequests, 1)
			start := m.now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := m.now().Sub(start)
			latencyMs := elapsed.Milliseconds()
			atomic.AddInt64(&m.activeRequests, -1)
			atomic.AddInt64(&m.totalRequests, 1)
			atomic.AddInt64(&m.totalLatencyMs, latencyMs)

			for {
				current := atomic.LoadInt64(&m.maxLatencyMs)
				if latencyMs <= current {
					break
				}
				if atomic.CompareAndSwapInt64(&m.maxLatencyMs, current, latencyMs) {
					break
				}
			}

			statusCode := c.Response().Status
			path := c.Path()
			if path == "" {
				path = unmatchedRoute
			}
			method := c.Request().Method
			endpoint := method + " " + path

			m.requests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
			m.latency.WithLabelValues(method, path).Observe(elapsed.Seconds())

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.statusCodes[statusCode]++
			m.mu.Unlock()

			if statusCode >= http.StatusBadRequest {
				atomic.AddInt64(&m.totalErrors, 1)
			}

			return nil
		}
	}
}

// RecordDecision counts one route-level authorization outcome.
func (m *Metrics) RecordDecision(requirement string, allowed bool) {
	if allowed {
		atomic.AddInt64(&m.allowed, 1)
		m.decisions.WithLabelValues(requirement, OutcomeAllowed).Inc()
		return
	}
	atomic.AddInt64(&m.denied, 1)
	m.decisions.WithLabelValues(requirement, OutcomeDenied).Inc()
	m.mu.Lock()
	m.deniedByRule[requirement]++
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalRequests   int64            `json:"total_requests"`
	ActiveRequests  int64            `json:"active_requests"`
	TotalErrors     int64            `json:"total_errors"`
	ErrorRate       float64          `json:"error_rate_pct"`
	AvgLatencyMs    float64          `json:"avg_latency_ms"`
	MaxLatencyMs    int64            `json:"max_latency_ms"`
	UptimeSeconds   float64          `json:"uptime_seconds"`
	EndpointCounts  map[string]int64 `json:"endpoint_counts"`
	StatusCodes     map[int]int64    `json:"status_codes"`
	AccessAllowed   int64            `json:"access_allowed"`
	AccessDenied    int64            `json:"access_denied"`
	DeniedByRequire map[string]int64 `json:"denied_by_requirement"`
}

func (m *Metrics) Snapshot() Snapshot {
	total := atomic.LoadInt64(&m.totalRequests)
	errs := atomic.LoadInt64(&m.totalErrors)

	snap := Snapshot{
		TotalRequests:  total,
		ActiveRequests: atomic.LoadInt64(&m.activeRequests),
		TotalErrors:    errs,
		MaxLatencyMs:   atomic.LoadInt64(&m.maxLatencyMs),
		UptimeSeconds:  m.now().Sub(m.startTime).Seconds(),
		AccessAllowed:  atomic.LoadInt64(&m.allowed),
		AccessDenied:   atomic.LoadInt64(&m.denied),
	}
	if total > 0 {
		snap.AvgLatencyMs = float64(atomic.LoadInt64(&m.totalLatencyMs)) / float64(total)
		snap.ErrorRate = float64(errs) / float64(total) * 100
	}

	m.mu.Lock()
	snap.EndpointCounts = make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		snap.EndpointCounts[k] = v
	}
	snap.StatusCodes = make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		snap.StatusCodes[k] = v
	}
	snap.DeniedByRequire = make(map[string]int64, len(m.deniedByRule))
	for k, v := range m.deniedByRule {
		snap.DeniedByRequire[k] = v
	}
	m.mu.Unlock()

	return snap
}

// Handler serves the current snapshot as JSON.
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

// PrometheusHandler serves the text exposition format for g.
func PrometheusHandler(g prometheus.Gatherer) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
