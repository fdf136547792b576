package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsManager holds the store's Prometheus metrics on a private registry,
// so several stores can live in one process.
type MetricsManager struct {
	Registry                 *prometheus.Registry
	SearchesTotal            prometheus.Counter
	SearchResults            prometheus.Histogram
	LoginAttemptsTotal       *prometheus.CounterVec // result: success|failure
	FavoriteTogglesTotal     *prometheus.CounterVec // action: added|removed
	ListingInteractionsTotal *prometheus.CounterVec // kind: like|share|view
	StorageErrorsTotal       *prometheus.CounterVec // operation: read|write|delete
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	searchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of catalog searches evaluated.",
	})
	searchResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of listings returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})
	loginAttemptsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts by result.",
	}, []string{"result"})
	favoriteTogglesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Total number of favorite toggles by action.",
	}, []string{"action"})
	interactionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_interactions_total",
		Help:      "Total number of listing likes, shares and views.",
	}, []string{"kind"})
	storageErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of swallowed device storage errors by operation.",
	}, []string{"operation"})

	registry.MustRegister(
		searchesTotal,
		searchResults,
		loginAttemptsTotal,
		favoriteTogglesTotal,
		interactionsTotal,
		storageErrorsTotal,
	)

	return &MetricsManager{
		Registry:                 registry,
		SearchesTotal:            searchesTotal,
		SearchResults:            searchResults,
		LoginAttemptsTotal:       loginAttemptsTotal,
		FavoriteTogglesTotal:     favoriteTogglesTotal,
		ListingInteractionsTotal: interactionsTotal,
		StorageErrorsTotal:       storageErrorsTotal,
	}
}
