// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honya_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "honya_recommend_duration_seconds",
			Help:    "Duration of recommendation pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "honya_recommend_results",
			Help:    "Number of books returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10},
		},
	)

	DataReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "honya_data_reloads_total",
			Help: "Total number of data snapshot reloads",
		},
	)

	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "honya_catalog_books",
			Help: "Number of books in the current catalog snapshot",
		},
	)

	RatingEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "honya_rating_entries",
			Help: "Number of rating entries in the current snapshot",
		},
	)
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(route string, status int) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveRecommend records one recommendation pipeline run.
func ObserveRecommend(start time.Time, results int) {
	RecommendDuration.Observe(time.Since(start).Seconds())
	RecommendResults.Observe(float64(results))
}

// SetSnapshotSizes updates the snapshot gauges after a load or reload.
func SetSnapshotSizes(books, ratings int) {
	CatalogBooks.Set(float64(books))
	RatingEntries.Set(float64(ratings))
}
