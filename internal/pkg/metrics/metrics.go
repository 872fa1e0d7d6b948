// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursemate_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursemate_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UploadsTotal counts upload attempts by kind (resource, avatar) and result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursemate_uploads_total",
		Help: "Total number of file uploads by kind and result",
	}, []string{"kind", "result"})

	// DownloadsTracked counts download-tracking calls that hit a resource.
	DownloadsTracked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursemate_downloads_tracked_total",
		Help: "Total number of tracked resource downloads",
	})

	// RatingsSubmitted counts accepted ratings.
	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursemate_ratings_submitted_total",
		Help: "Total number of accepted resource ratings",
	})
)

// Upload results
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// RecordUpload increments the upload counter
func RecordUpload(kind, result string) {
	UploadsTotal.WithLabelValues(kind, result).Inc()
}

// Middleware records request count and latency. Unmatched routes are
// grouped under "unmatched" to bound label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
