// Package auth contiene los controllers del flujo de login social: inicio
// del authorization code flow, callback del proveedor y gestión de la
// cuenta resultante.
package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	apperrors "github.com/dropDatabas3/littlejohn/internal/http/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/metrics"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// providerParam es el parámetro de ruta con el nombre del proveedor.
const providerParam = "provider"

// LoginController inicia el authorization code flow: valida la config del
// proveedor, asegura una sesión (anónima si hace falta), emite el state y
// redirige el navegador al authorization endpoint.
type LoginController struct {
	sessions *session.Codec
	tokens   *csrf.Binder
	users    repository.UserRepository
	env      oauth.Env
}

// NewLoginController crea el controller con sus dependencias.
func NewLoginController(sessions *session.Codec, tokens *csrf.Binder, users repository.UserRepository, env oauth.Env) *LoginController {
	return &LoginController{sessions: sessions, tokens: tokens, users: users, env: env}
}

func (c *LoginController) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)

	provider := chi.URLParam(r, providerParam)
	if provider == "" {
		helpers.WriteAppError(w, apperrors.ErrProviderMissing)
		return
	}

	conf := oauth.NewConfig(provider, c.env)
	if missing := conf.Validate(); missing != "" {
		// Los nombres de settings faltantes son para el operador, no hay
		// secreto en ellos.
		helpers.WriteAppError(w, apperrors.ErrProviderConfig.WithDetail(missing))
		return
	}

	// Reusar la sesión existente solo si resuelve a un usuario real; una
	// sesión cuyo usuario fue borrado vuelve a ser anónima. Un error
	// transitorio del store no: eso duplicaría usuarios.
	sess := c.sessions.Read(r)
	if sess != nil && !sess.IsAnonymous() {
		if _, err := c.users.Get(ctx, sess.UserID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Error("login: lookup session user", logger.UserID(sess.UserID), logger.Err(err))
				helpers.WriteAppError(w, apperrors.ErrInternalServerError)
				return
			}
			log.Warn("login: session user no longer exists, reverting to anonymous",
				logger.UserID(sess.UserID),
			)
			sess = nil
		}
	}
	if sess == nil {
		anon := session.NewAnonymous()
		sess = &anon
	}

	state, err := c.tokens.Issue(sess.UserID)
	if err != nil {
		log.Error("login: issue state token", logger.Err(err))
		helpers.WriteAppError(w, apperrors.ErrInternalServerError)
		return
	}

	authURL, err := conf.AuthCodeURL(state)
	if err != nil {
		helpers.WriteAppError(w, apperrors.ErrProviderConfig.
			WithDetail("the "+conf.Name(oauth.SettingEndpointAuth)+" value is not a valid URL").
			WithCause(err))
		return
	}

	if err := c.sessions.Write(w, *sess); err != nil {
		log.Error("login: write session", logger.Err(err))
		helpers.WriteAppError(w, apperrors.ErrInternalServerError)
		return
	}

	metrics.LoginsStarted.WithLabelValues(provider).Inc()
	log.Info("login started", logger.Provider(provider), logger.UserID(sess.UserID))
	http.Redirect(w, r, authURL, http.StatusFound)
}
