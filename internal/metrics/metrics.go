// Package metrics provides the centralized Prometheus metrics registry
// for the deal tracking service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	DealsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "deals_created_total",
		Help:      "Total number of deals created",
	})
	DealsUpdatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "deals_updated_total",
		Help:      "Total number of deal updates",
	})
	ComparisonsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "comparisons_total",
		Help:      "Total number of deal comparisons run",
	})
	HealthUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "health_updates_total",
		Help:      "Total number of portfolio health updates",
	})
	DeckUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "deck_uploads_total",
		Help:      "Total number of deck upload attempts by result",
	}, []string{"result"})
	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "store_errors_total",
		Help:      "Total number of record store failures by operation",
	}, []string{"operation"})
	ListCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "list_cache_hits_total",
		Help:      "Total number of deal list page cache hits",
	})
	ListCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealflow",
		Name:      "list_cache_misses_total",
		Help:      "Total number of deal list page cache misses",
	})
)

// Gauge metrics
var (
	PositionsCritical = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dealflow",
		Name:      "positions_critical",
		Help:      "Number of portfolio positions currently marked critical",
	})
	PositionsWarning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dealflow",
		Name:      "positions_warning",
		Help:      "Number of portfolio positions currently marked warning",
	})
	PositionsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dealflow",
		Name:      "positions_total",
		Help:      "Number of portfolio positions being monitored",
	})
	NotificationClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dealflow",
		Name:      "notification_clients",
		Help:      "Number of connected websocket notification clients",
	})
)

// Histogram metrics
var (
	ListQueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dealflow",
		Name:      "list_query_duration_seconds",
		Help:      "Latency of deal list page queries in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	DeckUploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dealflow",
		Name:      "deck_upload_duration_seconds",
		Help:      "Duration of deck uploads in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(DealsCreatedTotal)
		registry.MustRegister(DealsUpdatedTotal)
		registry.MustRegister(ComparisonsTotal)
		registry.MustRegister(HealthUpdatesTotal)
		registry.MustRegister(DeckUploadsTotal)
		registry.MustRegister(StoreErrorsTotal)
		registry.MustRegister(ListCacheHitsTotal)
		registry.MustRegister(ListCacheMissesTotal)

		registry.MustRegister(PositionsCritical)
		registry.MustRegister(PositionsWarning)
		registry.MustRegister(PositionsTotal)
		registry.MustRegister(NotificationClients)

		registry.MustRegister(ListQueryDuration)
		registry.MustRegister(DeckUploadDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordDealCreated records a deal creation event.
func RecordDealCreated() {
	DealsCreatedTotal.Inc()
}

// RecordDealUpdated records a deal update event.
func RecordDealUpdated() {
	DealsUpdatedTotal.Inc()
}

// RecordComparison records a comparison run.
func RecordComparison() {
	ComparisonsTotal.Inc()
}

// RecordHealthUpdate records a portfolio health update.
func RecordHealthUpdate() {
	HealthUpdatesTotal.Inc()
}

// RecordDeckUpload records an upload attempt by result label.
func RecordDeckUpload(result string, durationSeconds float64) {
	DeckUploadsTotal.WithLabelValues(result).Inc()
	DeckUploadDuration.Observe(durationSeconds)
}

// RecordStoreError records a record store failure.
func RecordStoreError(operation string) {
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordListQuery records a list page query.
func RecordListQuery(durationSeconds float64) {
	ListQueryDuration.Observe(durationSeconds)
}

// UpdateHealthGauges updates the portfolio severity gauges.
func UpdateHealthGauges(total, critical, warning int) {
	PositionsTotal.Set(float64(total))
	PositionsCritical.Set(float64(critical))
	PositionsWarning.Set(float64(warning))
}
