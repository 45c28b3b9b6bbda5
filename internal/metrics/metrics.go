// Package metrics provides Prometheus metrics for the vault server.
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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homevault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homevault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homevault_bytes_uploaded_total",
			Help: "Total bytes accepted by the upload endpoint",
		},
	)

	bytesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homevault_bytes_downloaded_total",
			Help: "Total response body bytes written by the download endpoint",
		},
	)

	rejectedPaths = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homevault_rejected_paths_total",
			Help: "Client paths rejected by validation or the vault guard",
		},
		[]string{"operation"},
	)

	listedEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homevault_listing_entries",
			Help:    "Number of directory entries returned per listing request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordUpload(bytes int64) {
	bytesUploaded.Add(float64(bytes))
}

func RecordDownload(bytes int64) {
	bytesDownloaded.Add(float64(bytes))
}

// RecordRejectedPath counts a path refused before any filesystem access.
func RecordRejectedPath(operation string) {
	rejectedPaths.WithLabelValues(operation).Inc()
}

func RecordListing(entries int) {
	listedEntries.Observe(float64(entries))
}
