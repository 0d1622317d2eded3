package middleware

import (
	"net/http"
	"time"

	"github.com/vr-ski/TransactionManager/pkg/metrics"
)

// Metrics records request counts and latency by route pattern. It has to wrap
// the ServeMux directly: the mux sets r.Pattern on the request it receives.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			inFlight := m.RequestsInFlight.WithLabelValues(r.Method)
			inFlight.Inc()
			defer inFlight.Dec()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, rec.status, time.Since(start))
		})
	}
}
