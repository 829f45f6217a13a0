package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"

	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
)

// RequireCsrf exige un token CSRF válido para el principal de la sesión.
// Corre después de Authenticate o WithSessionContext: sin sesión en el
// contexto no hay principal contra el cual validar y la respuesta es 403.
func RequireCsrf(binder *csrf.Binder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := r.Header.Get(csrf.HeaderName)
			if tok == "" {
				helpers.WriteAppError(w, apperrors.ErrCsrfRequired)
				return
			}

			sess := SessionFrom(r.Context())
			if sess == nil || !binder.Validate(tok, sess.UserID) {
				logger.From(r.Context()).Warn("csrf token rejected")
				helpers.WriteAppError(w, apperrors.ErrCsrfInvalid)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
