package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proxi",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"kind", "geo", "status"},
	)

	SearchCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "proxi",
			Name:      "search_candidates",
			Help:      "Number of candidates fetched from the store per search",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"kind"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "proxi",
			Name:      "search_results",
			Help:      "Number of results surviving the filter pipeline per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"kind"},
	)

	SearchStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proxi",
			Name:      "search_store_errors_total",
			Help:      "Total store fetch errors absorbed into empty results",
		},
		[]string{"kind"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchStoreErrorsTotal)
	searchMetricsRegistered = true
}
