package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/facwise/facalloc/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records Prometheus counters and latency for every request. It
// labels by the matched chi route pattern rather than the raw path so run
// IDs in URLs do not explode metric cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(ww.status), time.Since(start))
	})
}
