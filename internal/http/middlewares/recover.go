package middlewares

import (
	"net/http"
	"runtime/debug"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// WithRecover atrapa panics, los loguea con stack y responde 500 genérico.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Any("panic", rec),
						logger.Method(r.Method),
						logger.Path(r.URL.Path),
						logger.String("stack", string(debug.Stack())),
					)
					helpers.WriteAppError(w, apperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
