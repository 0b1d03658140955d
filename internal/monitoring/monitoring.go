// Package monitoring exposes Prometheus metrics for the HTTP API.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "version_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The duration of a web request in seconds.",
	}, []string{"path_pattern", "method"})

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "version_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The number of web requests by route and status code.",
	}, []string{"path_pattern", "method", "code"})
)

func init() {
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(requestsTotal)
}

// Middleware records duration and status of every request, labeled by the
// chi route pattern so that ids in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := RoutePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(pattern, r.Method).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(status)).Inc()
	})
}

// RoutePattern returns the matched chi pattern, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
