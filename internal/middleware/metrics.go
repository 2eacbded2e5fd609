package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bryanwahyu/supplychain-insight/internal/metrics"
)

// Metrics records request counts, latency and in-flight requests.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		metrics.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}
