// Package metrics provides Prometheus metrics for the RespiView core service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Snapshot fetch metrics.
	snapshotFetches      *prometheus.CounterVec
	snapshotFetchErrors  *prometheus.CounterVec
	snapshotFetchLatency prometheus.Histogram
	staleResponsesDropped prometheus.Counter

	// View-state metrics.
	viewResolves      prometheus.Counter
	viewChanges       prometheus.Counter
	paramCorrections  prometheus.Counter

	// Scoring metrics.
	gamesScored     prometheus.Counter
	scoringSkipped  prometheus.Counter
	scoringLatency  prometheus.Histogram

	// Store metrics.
	gamesStored      prometheus.Gauge
	storeSaves       prometheus.Counter
	storeDeletes     prometheus.Counter
	storeImportErrors prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global manager on a custom registry to avoid default Go collectors.
var globalManager *Manager                       //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()    //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "respiview",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.snapshotFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_fetches_total",
			Help:      "Total snapshot document fetches by dataset",
		},
		[]string{"dataset"},
	)

	m.snapshotFetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_fetch_errors_total",
			Help:      "Total failed snapshot fetches by dataset",
		},
		[]string{"dataset"},
	)

	m.snapshotFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_fetch_latency_milliseconds",
		Help:      "Histogram of snapshot fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.staleResponsesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_responses_dropped_total",
		Help:      "Responses discarded because parameters changed mid-flight",
	})

	m.viewResolves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_resolves_total",
		Help:      "Total view-state reconciliation runs",
	})

	m.viewChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_changes_total",
		Help:      "Total view transitions applied",
	})

	m.paramCorrections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "param_corrections_total",
		Help:      "Stale or invalid URL parameters corrected to defaults",
	})

	m.gamesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_scored_total",
		Help:      "Total games scored",
	})

	m.scoringSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_skipped_total",
		Help:      "Scoring units skipped due to non-finite inputs",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-game scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.gamesStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_stored",
		Help:      "Current number of game records in the store",
	})

	m.storeSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_saves_total",
		Help:      "Total game save/upsert operations",
	})

	m.storeDeletes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_deletes_total",
		Help:      "Total game delete operations",
	})

	m.storeImportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_import_errors_total",
		Help:      "Rejected game-store imports",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// Package-level helpers against the global manager.

func RecordSnapshotFetch(dataset string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.snapshotFetches.WithLabelValues(dataset).Inc()
	}
}

func RecordSnapshotFetchError(dataset string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.snapshotFetchErrors.WithLabelValues(dataset).Inc()
	}
}

func RecordSnapshotFetchLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.snapshotFetchLatency.Observe(latencyMs)
	}
}

func RecordStaleResponseDropped() {
	if globalManager != nil && globalManager.enabled {
		globalManager.staleResponsesDropped.Inc()
	}
}

func RecordViewResolve() {
	if globalManager != nil && globalManager.enabled {
		globalManager.viewResolves.Inc()
	}
}

func RecordViewChange() {
	if globalManager != nil && globalManager.enabled {
		globalManager.viewChanges.Inc()
	}
}

func RecordParamCorrection() {
	if globalManager != nil && globalManager.enabled {
		globalManager.paramCorrections.Inc()
	}
}

func RecordGameScored() {
	if globalManager != nil && globalManager.enabled {
		globalManager.gamesScored.Inc()
	}
}

func RecordScoringSkipped() {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoringSkipped.Inc()
	}
}

func RecordScoringLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoringLatency.Observe(latencyMs)
	}
}

func UpdateGamesStored(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.gamesStored.Set(float64(count))
	}
}

func RecordStoreSave() {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeSaves.Inc()
	}
}

func RecordStoreDelete() {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeDeletes.Inc()
	}
}

func RecordStoreImportError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeImportErrors.Inc()
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
