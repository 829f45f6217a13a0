package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// Authenticate exige una sesión válida con un usuario real detrás. Inyecta
// sesión y usuario en el contexto.
//
// Cualquier fallo del lookup (incluida una sesión anónima, cuyo principal
// no existe como usuario) responde 401, nunca 500: ante un store caído
// preferimos que el cliente reintente el login a filtrar el estado interno.
func Authenticate(sessions *session.Codec, users repository.UserRepository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Read(r)
			if sess == nil {
				helpers.WriteAppError(w, apperrors.ErrNotAuthenticated)
				return
			}

			user, err := users.Get(r.Context(), sess.UserID)
			if err != nil {
				logger.From(r.Context()).Warn("session principal did not resolve to a user",
					logger.UserID(sess.UserID),
					logger.Err(err),
				)
				helpers.WriteAppError(w, apperrors.ErrUserNotFound)
				return
			}

			ctx := WithSession(r.Context(), sess)
			ctx = WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionContext inyecta la sesión en el contexto si existe, sin
// exigirla. Para endpoints que atienden también a visitantes anónimos.
func WithSessionContext(sessions *session.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := sessions.Read(r); sess != nil {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}
