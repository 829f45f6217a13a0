package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/metrics"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// WithRequestLog inyecta un logger scoped con request id, loguea cada
// request terminado y alimenta el histograma de latencia.
func WithRequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := uuid.NewString()

			l := logger.With(logger.RequestID(reqID))
			ctx := logger.ToContext(r.Context(), l)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			elapsed := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			l.Info("request",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(ww.Status()),
				logger.Duration(elapsed),
			)
			metrics.RequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
				Observe(elapsed.Seconds())
		})
	}
}
