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

	// CascadeDeleted counts guestbooks removed as part of deleting their user.
	CascadeDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guestbook_cascade_deleted_total",
			Help: "Guestbooks deleted because their user was deleted",
		},
	)

	// UsernameFallbacks counts guestbooks listed with the "Not found" username.
	UsernameFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guestbook_username_fallbacks_total",
			Help: "Guestbooks listed whose user could not be found",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, CascadeDeleted, UsernameFallbacks)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /users/12/guestbooks -> /users/{id}/guestbooks.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// AddCascadeDeleted adds n to the cascade delete counter. Non-positive n is ignored.
func AddCascadeDeleted(n int64) {
	if n > 0 {
		CascadeDeleted.Add(float64(n))
	}
}

func IncUsernameFallbacks() {
	UsernameFallbacks.Inc()
}
