package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Searches          *prometheus.CounterVec
	AirlineLookups    *prometheus.CounterVec
	LocationCache     *prometheus.CounterVec
	NormalizeDuration prometheus.Histogram
	ActiveSessions    prometheus.Gauge
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates the service metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_searches_total",
			Help:      "The total number of flight searches by outcome",
		}, []string{"outcome"}),
		AirlineLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airline_lookups_total",
			Help:      "The total number of airline name lookups by outcome",
		}, []string{"outcome"}),
		LocationCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_cache_total",
			Help:      "Location autocomplete cache hits and misses",
		}, []string{"result"}),
		NormalizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offer_normalize_duration_seconds",
			Help:      "Time taken to normalize one search response",
			Buckets:   prometheus.DefBuckets,
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_search_sessions",
			Help:      "The number of live search sessions",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// NewNopMetrics returns metrics registered on a throwaway registry
func NewNopMetrics() *Metrics {
	return NewMetrics("nop", prometheus.NewRegistry())
}
