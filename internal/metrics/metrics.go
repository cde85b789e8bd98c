// Package metrics exposes Prometheus collectors for the crawler service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitesearch_searches_total",
			Help: "Total number of searches that reached a terminal state, labeled by status.",
		},
		[]string{"status"},
	)

	pagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitesearch_pages_fetched_total",
			Help: "Total number of page fetch attempts, labeled by result.",
		},
		[]string{"result"},
	)

	fetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitesearch_fetch_retries_total",
			Help: "Total number of fetch retry attempts after an initial failure.",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitesearch_keyword_matches_total",
			Help: "Total number of pages recorded as keyword matches.",
		},
	)

	activeCrawls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sitesearch_active_crawls",
			Help: "Number of crawl traversals currently running.",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the page fetch counter for a success or failure.
func ObservePage(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	pagesFetchedTotal.WithLabelValues(result).Inc()
}

// ObserveFetchRetry counts a retry attempt inside the fetcher.
func ObserveFetchRetry() {
	fetchRetriesTotal.Inc()
}

// ObserveMatch counts a recorded keyword match.
func ObserveMatch() {
	matchesTotal.Inc()
}

// ObserveSearch increments the terminal search counter for the given status.
func ObserveSearch(status string) {
	searchesTotal.WithLabelValues(status).Inc()
}

// IncActiveCrawls increments the active crawls gauge.
func IncActiveCrawls() {
	activeCrawls.Inc()
}

// DecActiveCrawls decrements the active crawls gauge.
func DecActiveCrawls() {
	activeCrawls.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
