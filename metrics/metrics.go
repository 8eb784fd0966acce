package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecommendationRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Total recommendation requests served",
	})
	RecommendationFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_fallbacks_total",
		Help: "Requests answered by the trending-only fallback",
	})
	RecommendationBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_build_seconds",
		Help:    "Time spent building a recommendation result",
		Buckets: prometheus.DefBuckets,
	})
	SignalReadErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_signal_read_errors_total",
		Help: "Signal reads that failed and degraded to empty",
	}, []string{"signal"})
	ViewRecordErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "view_record_errors_total",
		Help: "View-recording writes that failed and were dropped",
	})
)

// MustRegister registers all collectors with the given registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		RecommendationRequests,
		RecommendationFallbacks,
		RecommendationBuildSeconds,
		SignalReadErrors,
		ViewRecordErrors,
	)
}
