package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "configurator"

// Metrics holds the service's Prometheus collectors on their own registry
type Metrics struct {
	registry *prometheus.Registry

	resolveTotal      *prometheus.CounterVec
	resolveDuration   *prometheus.HistogramVec
	resolveCandidates *prometheus.HistogramVec

	searchTotal    *prometheus.CounterVec
	searchDuration prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration prometheus.Histogram
	catalogParts        *prometheus.GaugeVec

	buildsSaved prometheus.Counter
}

// New registers every collector plus the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		resolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Compatibility resolutions by part type and PCIe policy",
		}, []string{"part_type", "policy"}),
		resolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Compatibility resolution latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"part_type"}),
		resolveCandidates: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_candidates",
			Help:      "Compatible candidates returned per resolution",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"part_type"}),

		searchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Budget build searches by outcome",
		}, []string{"found"}),
		searchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Budget build search latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Result cache hits",
		}, []string{"cache"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Result cache misses",
		}, []string{"cache"}),

		catalogLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog snapshot loads by result",
		}, []string{"result"}),
		catalogLoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Catalog snapshot load latency",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		catalogParts: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_parts",
			Help:      "Parts in the current catalog snapshot",
		}, []string{"part_type"}),

		buildsSaved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_saved_total",
			Help:      "Build snapshots saved, including patched copies",
		}),
	}
}

// ObserveResolve records one resolution
func (m *Metrics) ObserveResolve(partType, policy string, candidates int, d time.Duration) {
	m.resolveTotal.WithLabelValues(partType, policy).Inc()
	m.resolveDuration.WithLabelValues(partType).Observe(d.Seconds())
	m.resolveCandidates.WithLabelValues(partType).Observe(float64(candidates))
}

// ObserveSearch records one budget search
func (m *Metrics) ObserveSearch(found bool, d time.Duration) {
	m.searchTotal.WithLabelValues(strconv.FormatBool(found)).Inc()
	m.searchDuration.Observe(d.Seconds())
}

// CacheHit counts a hit on the named cache
func (m *Metrics) CacheHit(name string) { m.cacheHits.WithLabelValues(name).Inc() }

// CacheMiss counts a miss on the named cache
func (m *Metrics) CacheMiss(name string) { m.cacheMisses.WithLabelValues(name).Inc() }

// ObserveCatalogLoad records a snapshot load and, on success, its part counts
func (m *Metrics) ObserveCatalogLoad(d time.Duration, err error, counts map[string]int) {
	if err != nil {
		m.catalogLoads.WithLabelValues("error").Inc()
		return
	}
	m.catalogLoads.WithLabelValues("ok").Inc()
	m.catalogLoadDuration.Observe(d.Seconds())
	for partType, n := range counts {
		m.catalogParts.WithLabelValues(partType).Set(float64(n))
	}
}

// BuildSaved counts a saved build snapshot
func (m *Metrics) BuildSaved() { m.buildsSaved.Inc() }

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
