package auth

import (
	"errors"
	"net/http"
	"time"

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

// RedirectController procesa la authorization response (RFC 6749 §4.1.2):
// valida state contra la sesión, canjea el code, lee los claims del
// id_token y resuelve o crea el usuario y su identidad.
//
// Los errores van como HTML: en este endpoint el cliente es el navegador
// del usuario volviendo del proveedor, no hay frontend que formatee JSON.
type RedirectController struct {
	sessions   *session.Codec
	tokens     *csrf.Binder
	users      repository.UserRepository
	identities repository.IdentityRepository
	client     *http.Client
	env        oauth.Env
}

// NewRedirectController crea el controller con sus dependencias.
func NewRedirectController(
	sessions *session.Codec,
	tokens *csrf.Binder,
	users repository.UserRepository,
	identities repository.IdentityRepository,
	client *http.Client,
	env oauth.Env,
) *RedirectController {
	return &RedirectController{
		sessions:   sessions,
		tokens:     tokens,
		users:      users,
		identities: identities,
		client:     client,
		env:        env,
	}
}

// responseParams son los parámetros de la authorization response, que
// llegan por query (GET) o por form body (POST con response_mode=form_post,
// el modo que exige Apple).
type responseParams struct {
	errorCode string
	code      string
	state     string
}

func (c *RedirectController) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)
	provider := chi.URLParam(r, providerParam)

	params, ok := c.parseParams(w, r)
	if !ok {
		return
	}

	// Primero los errores reportados por el proveedor: no requieren nada
	// más del request.
	if params.errorCode != "" {
		metrics.CallbacksCompleted.WithLabelValues(provider, metrics.OutcomeDenied).Inc()
		helpers.WriteHTMLError(w, providerError(params.errorCode))
		return
	}

	if provider == "" {
		helpers.WriteHTMLError(w, apperrors.ErrProviderMissing)
		return
	}
	conf := oauth.NewConfig(provider, c.env)
	if missing := conf.Validate(); missing != "" {
		helpers.WriteHTMLError(w, apperrors.ErrProviderConfig.WithDetail(missing))
		return
	}

	// Validación de state (nuestro token CSRF atado al principal de la
	// sesión que inició el login).
	if params.state == "" {
		helpers.WriteHTMLError(w, apperrors.ErrStateMissing)
		return
	}
	sess := c.sessions.Read(r)
	if sess == nil {
		helpers.WriteHTMLError(w, apperrors.ErrSessionRequired)
		return
	}
	if !c.tokens.Validate(params.state, sess.UserID) {
		log.Warn("callback: state rejected", logger.Provider(provider))
		helpers.WriteHTMLError(w, apperrors.ErrStateInvalid)
		return
	}

	if params.code == "" {
		helpers.WriteHTMLError(w, apperrors.ErrCodeMissing)
		return
	}

	tokens, err := oauth.ExchangeCode(ctx, c.client, conf, params.code)
	if err != nil {
		// La causa va al log; al navegador solo el mensaje genérico.
		log.Error("callback: token request failed", logger.Provider(provider), logger.Err(err))
		metrics.CallbacksCompleted.WithLabelValues(provider, metrics.OutcomeError).Inc()
		helpers.WriteHTMLError(w, apperrors.ErrTokenExchange)
		return
	}

	if tokens.IDToken == "" {
		helpers.WriteHTMLError(w, apperrors.ErrIDTokenMissing)
		return
	}
	claims, err := oauth.ParseIDTokenClaims(tokens.IDToken)
	if err != nil {
		helpers.WriteHTMLError(w, apperrors.ErrProviderFailure.
			WithDetail("Could not parse the id_token.").WithCause(err))
		return
	}
	if claims.Subject == "" {
		helpers.WriteHTMLError(w, apperrors.ErrClaimMissing.WithDetail("The sub claim is empty."))
		return
	}
	if claims.Email == "" {
		helpers.WriteHTMLError(w, apperrors.ErrClaimMissing.WithDetail("The email claim is empty."))
		return
	}

	user, appErr := c.resolveUser(r, sess, provider, claims.Subject)
	if appErr != nil {
		outcome := metrics.OutcomeConflict
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			outcome = metrics.OutcomeError
		}
		metrics.CallbacksCompleted.WithLabelValues(provider, outcome).Inc()
		helpers.WriteHTMLError(w, appErr)
		return
	}

	ident := repository.Identity{
		UserID:       user.ID,
		Provider:     provider,
		Subject:      claims.Subject,
		Email:        claims.Email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if tokens.ExpiresIn > 0 {
		ident.ExpiresAt = time.Now().UnixMilli() + tokens.ExpiresIn*1000
	}
	if _, err := c.identities.Upsert(ctx, ident); err != nil {
		if errors.Is(err, repository.ErrIdentityTaken) {
			// Carrera entre el chequeo de resolveUser y el upsert.
			metrics.CallbacksCompleted.WithLabelValues(provider, metrics.OutcomeConflict).Inc()
			helpers.WriteHTMLError(w, apperrors.ErrIdentityConflict)
			return
		}
		log.Error("callback: persist identity", logger.Provider(provider), logger.Err(err))
		metrics.CallbacksCompleted.WithLabelValues(provider, metrics.OutcomeError).Inc()
		helpers.WriteHTMLError(w, apperrors.ErrInternalServerError)
		return
	}

	if err := c.sessions.Write(w, session.Session{
		UserID:    user.ID,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		log.Error("callback: write session", logger.Err(err))
		helpers.WriteHTMLError(w, apperrors.ErrInternalServerError)
		return
	}

	metrics.CallbacksCompleted.WithLabelValues(provider, metrics.OutcomeSuccess).Inc()
	log.Info("login completed",
		logger.Provider(provider),
		logger.UserID(user.ID),
		logger.Subject(claims.Subject),
	)
	http.Redirect(w, r, "/", http.StatusFound)
}

// resolveUser decide a qué usuario pertenece este login:
//   - la identidad ya existe y la sesión es anónima: es un re-login, se usa
//     el dueño de la identidad (salvo identidad huérfana, que se borra),
//   - la identidad ya existe y la sesión tiene otro usuario real: conflicto,
//   - la identidad no existe: se vincula al usuario de la sesión, o a uno
//     nuevo si la sesión es anónima.
func (c *RedirectController) resolveUser(r *http.Request, sess *session.Session, provider, subject string) (*repository.User, *apperrors.AppError) {
	ctx := r.Context()
	log := logger.From(ctx)

	// Solo ErrNotFound significa "sesión anónima" (o usuario borrado); un
	// error transitorio del store no puede degradar la sesión a anónima.
	var user *repository.User
	switch u, err := c.users.Get(ctx, sess.UserID); {
	case err == nil:
		user = u
	case !errors.Is(err, repository.ErrNotFound):
		log.Error("callback: lookup session user", logger.UserID(sess.UserID), logger.Err(err))
		return nil, apperrors.ErrInternalServerError
	}

	existing, err := c.identities.GetByProviderSubject(ctx, provider, subject)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("callback: lookup identity", logger.Err(err))
		return nil, apperrors.ErrInternalServerError
	}

	if existing != nil {
		if user == nil {
			owner, err := c.users.Get(ctx, existing.UserID)
			switch {
			case err == nil:
				return owner, nil
			case errors.Is(err, repository.ErrNotFound):
				// Identidad huérfana: apunta a un usuario que ya no
				// existe. Se borra y el flujo sigue como primer login.
				log.Warn("callback: identity points at a missing user, deleting it",
					logger.IdentityID(existing.ID),
					logger.UserID(existing.UserID),
				)
				if err := c.identities.Delete(ctx, existing.UserID, existing.Provider); err != nil {
					log.Error("callback: delete orphaned identity", logger.Err(err))
					return nil, apperrors.ErrInternalServerError
				}
			default:
				// Un error transitorio no prueba que el dueño no exista:
				// borrar la identidad acá regalaría la cuenta.
				log.Error("callback: lookup identity owner",
					logger.IdentityID(existing.ID),
					logger.UserID(existing.UserID),
					logger.Err(err),
				)
				return nil, apperrors.ErrInternalServerError
			}
		} else if user.ID != existing.UserID {
			log.Warn("callback: identity already linked to another user",
				logger.UserID(user.ID),
				logger.Provider(existing.Provider),
				logger.Subject(existing.Subject),
			)
			return nil, apperrors.ErrIdentityConflict.WithDetail(
				"Log out and sign in with this provider to use that account, or unlink it from the other user first.")
		}
	}

	if user != nil {
		return user, nil
	}
	created, err := c.users.Create(ctx)
	if err != nil {
		log.Error("callback: create user", logger.Err(err))
		return nil, apperrors.ErrInternalServerError
	}
	return created, nil
}

// parseParams extrae error/code/state según el método. Devuelve false si ya
// respondió un error.
func (c *RedirectController) parseParams(w http.ResponseWriter, r *http.Request) (responseParams, bool) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		return responseParams{
			errorCode: q.Get("error"),
			code:      q.Get("code"),
			state:     q.Get("state"),
		}, true
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			helpers.WriteHTMLError(w, apperrors.ErrBadRequest.
				WithDetail("The form body could not be parsed.").WithCause(err))
			return responseParams{}, false
		}
		return responseParams{
			errorCode: r.PostForm.Get("error"),
			code:      r.PostForm.Get("code"),
			state:     r.PostForm.Get("state"),
		}, true
	default:
		helpers.WriteHTMLError(w, apperrors.ErrBadRequest.
			WithDetail("Unexpected redirect method."))
		return responseParams{}, false
	}
}

// providerError mapea el parámetro error de la authorization response
// (RFC 6749 §4.1.2.1). Las denegaciones son 401; el resto, error del
// servidor de autorización.
func providerError(code string) *apperrors.AppError {
	switch code {
	case "access_denied":
		return apperrors.ErrProviderDenied.
			WithDetail("The resource owner or authorization server denied the request (access_denied).")
	case "unauthorized_client":
		return apperrors.ErrProviderDenied.
			WithDetail("The client is not authorized to request an authorization code using this method (unauthorized_client).")
	default:
		return apperrors.ErrProviderFailure.
			WithDetail("An error occurred at the authorization server: " + code + ".")
	}
}
