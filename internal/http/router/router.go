// Package router arma el árbol de rutas de la aplicación.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/metrics"
	"github.com/dropDatabas3/littlejohn/internal/store"
)

// Controllers agrupa los controllers del flujo de auth.
type Controllers struct {
	Login          *authctrl.LoginController
	Redirect       *authctrl.RedirectController
	Me             *authctrl.MeController
	DeleteIdentity *authctrl.DeleteIdentityController
	DeleteUser     *authctrl.DeleteUserController
	Logout         *authctrl.LogoutController
	Csrf           *authctrl.CsrfController
}

// Deps contiene todas las dependencias del router.
type Deps struct {
	Store       store.Store
	Controllers Controllers

	// Middlewares de protección, ya cerrados sobre sus dependencias.
	Authenticate   mw.Middleware
	SessionContext mw.Middleware
	RequireCsrf    mw.Middleware

	CORSAllowedOrigins []string
}

// New construye el router con todas las rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestLog())
	r.Use(mw.WithCORS(deps.CORSAllowedOrigins))

	r.Get("/healthz", healthHandler(deps.Store))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		c := deps.Controllers

		r.Get("/login/{provider}", c.Login.Handle)

		// El callback llega por GET (query) o por POST (form_post, Apple).
		r.Get("/redirect/{provider}", c.Redirect.Handle)
		r.Post("/redirect/{provider}", c.Redirect.Handle)

		r.With(deps.SessionContext).Get("/csrf", c.Csrf.Handle)
		r.Get("/logout", c.Logout.Handle)

		r.Group(func(r chi.Router) {
			r.Use(deps.Authenticate)
			r.Get("/me", c.Me.Handle)

			r.Group(func(r chi.Router) {
				r.Use(deps.RequireCsrf)
				r.Delete("/me", c.DeleteUser.Handle)
				r.Delete("/me/identities/{identityID}", c.DeleteIdentity.Handle)
			})
		})
	})

	return r
}

func healthHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
