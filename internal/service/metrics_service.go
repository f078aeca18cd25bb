package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the generation engine.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	generationDuration prometheus.Histogram
	generationTotal    prometheus.Counter
	candidateCount     prometheus.Histogram
	emptyResults       prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routine_generation_duration_seconds",
		Help:    "Duration of routine generation runs",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
	})

	generationTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routine_generation_runs_total",
		Help: "Total number of routine generation runs",
	})

	candidateCount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routine_generation_candidates",
		Help:    "Number of conflict-free routines produced per run",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})

	emptyResults := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routine_generation_empty_total",
		Help: "Generation runs that produced no conflict-free routine",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, generationTotal, candidateCount, emptyResults, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		generationTotal:    generationTotal,
		candidateCount:     candidateCount,
		emptyResults:       emptyResults,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveRequest records one completed HTTP request.
func (m *MetricsService) ObserveRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records one generation run.
func (m *MetricsService) ObserveGeneration(duration time.Duration, candidates int, empty bool) {
	m.generationTotal.Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.candidateCount.Observe(float64(candidates))
	if empty {
		m.emptyResults.Inc()
	}
}
