package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bitfaber/preventivo/internal/obs"
)

// Metrics records request counts and latency. The route label is the chi
// pattern matched for the request, resolved after the handler ran.
func Metrics(m *obs.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			m.Duration.WithLabelValues(r.Method, route).Observe(time.Since(started).Seconds())
		})
	}
}
