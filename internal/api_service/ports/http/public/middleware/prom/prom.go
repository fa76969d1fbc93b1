// Package prom counts and times requests for the /metrics endpoint.
package prom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ratestash/ratestash/internal/metrics"
)

func New() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			next.ServeHTTP(ww, r)

			metrics.RequestsTotal.
				WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
			metrics.RequestDurationSeconds.
				WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
		}

		return http.HandlerFunc(fn)
	}
}
