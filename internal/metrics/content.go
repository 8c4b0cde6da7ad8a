package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load outcome label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Content hub Prometheus metrics.
var (
	ContentLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contenthub",
			Name:      "content_loads_total",
			Help:      "Total number of content collection loads",
		},
		[]string{"type", "status"},
	)

	ContentItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "contenthub",
			Name:      "content_items",
			Help:      "Number of items in the currently loaded collection",
		},
		[]string{"type"},
	)

	FilterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contenthub",
			Name:      "filter_duration_seconds",
			Help:      "Time spent filtering a tab",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"tab"},
	)

	FilterCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contenthub",
			Name:      "filter_cache_total",
			Help:      "Processed tab cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "contenthub",
			Name:      "sessions_active",
			Help:      "Number of live search sessions",
		},
	)
)

var registerContentOnce sync.Once

// RegisterContentMetrics registers the content hub metrics. Safe to call more than once.
func RegisterContentMetrics() {
	registerContentOnce.Do(func() {
		prometheus.MustRegister(ContentLoadsTotal)
		prometheus.MustRegister(ContentItems)
		prometheus.MustRegister(FilterDuration)
		prometheus.MustRegister(FilterCacheTotal)
		prometheus.MustRegister(SessionsActive)
	})
}

// RecordLoad counts a load attempt and, on success, updates the item gauge.
func RecordLoad(contentType string, items int, err error) {
	if err != nil {
		ContentLoadsTotal.WithLabelValues(contentType, StatusError).Inc()
		return
	}
	ContentLoadsTotal.WithLabelValues(contentType, StatusOK).Inc()
	ContentItems.WithLabelValues(contentType).Set(float64(items))
}

// ObserveFilter records how long filtering a tab took.
func ObserveFilter(tab string, start time.Time) {
	FilterDuration.WithLabelValues(tab).Observe(time.Since(start).Seconds())
}

// RecordCache counts a processed tab cache lookup.
func RecordCache(hit bool) {
	if hit {
		FilterCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	FilterCacheTotal.WithLabelValues("miss").Inc()
}
