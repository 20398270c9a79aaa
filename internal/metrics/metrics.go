package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthRejections counts requests refused before reaching a store write,
	// by reason (method_not_allowed, csrf_*, unauthenticated, not_found, forbidden, bad_credentials).
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Requests rejected by the authorization checks, by reason",
		},
		[]string{"reason"},
	)

	// SessionsPurged counts expired sessions removed by the purge job.
	SessionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_purged_total",
			Help: "Expired sessions removed by the purge job",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthRejections, SessionsPurged)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /article/12/comment -> /article/{id}/comment.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuthRejection increments the rejection counter for reason.
func IncAuthRejection(reason string) {
	AuthRejections.WithLabelValues(reason).Inc()
}

// AddSessionsPurged adds n to the purged-sessions counter.
func AddSessionsPurged(n int64) {
	if n > 0 {
		SessionsPurged.Add(float64(n))
	}
}
