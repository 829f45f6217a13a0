package auth_test

// Harness de tests del flujo completo: router real, store en memoria y un
// proveedor OAuth falso servido por httptest.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"
	"github.com/dropDatabas3/littlejohn/internal/security/token"
	"github.com/dropDatabas3/littlejohn/internal/session"
	"github.com/dropDatabas3/littlejohn/internal/store/adapters/memory"
)

type testApp struct {
	handler    http.Handler
	sessions   *session.Codec
	binder     *csrf.Binder
	users      repository.UserRepository
	identities repository.IdentityRepository
	env        map[string]string
}

// errStoreDown simula un backend caído o con errores transitorios.
var errStoreDown = errors.New("store: connection reset")

// flakyUsers envuelve el repo de usuarios y hace fallar los Get de los ids
// marcados en failGet.
type flakyUsers struct {
	repository.UserRepository
	failGet map[string]bool
}

func (f *flakyUsers) Get(ctx context.Context, id string) (*repository.User, error) {
	if f.failGet[id] {
		return nil, errStoreDown
	}
	return f.UserRepository.Get(ctx, id)
}

// newTestApp arma la aplicación con un proveedor "google" cuyo token
// endpoint es el handler dado (nil deja un endpoint inalcanzable).
// wrapUsers permite interponer un repo de usuarios defectuoso.
func newTestApp(t *testing.T, tokenEndpoint http.Handler, wrapUsers ...func(repository.UserRepository) repository.UserRepository) *testApp {
	t.Helper()

	st := memory.New()
	sessions, err := session.NewCodec("test-session-secret", false, session.WithQuiet())
	require.NoError(t, err)
	binder, err := csrf.New("test-csrf-secret", token.WithQuiet())
	require.NoError(t, err)

	users := repository.NewUserRepository(st)
	for _, wrap := range wrapUsers {
		users = wrap(users)
	}
	identities := repository.NewIdentityRepository(st)

	env := map[string]string{
		"OAUTH_GOOGLE_ENDPOINT_AUTH":     "https://accounts.google.com/o/oauth2/v2/auth",
		"OAUTH_GOOGLE_ENDPOINT_TOKEN":    "https://oauth2.googleapis.com/token",
		"OAUTH_GOOGLE_ENDPOINT_REDIRECT": "https://app.example.com/auth/redirect/google",
		"OAUTH_GOOGLE_CLIENT_ID":         "client-123",
		"OAUTH_GOOGLE_CLIENT_SECRET":     "shhh",
	}
	client := http.DefaultClient
	if tokenEndpoint != nil {
		ts := httptest.NewServer(tokenEndpoint)
		t.Cleanup(ts.Close)
		env["OAUTH_GOOGLE_ENDPOINT_TOKEN"] = ts.URL
		client = ts.Client()
	}
	lookup := oauth.Env(func(name string) string { return env[name] })

	handler := router.New(router.Deps{
		Store: st,
		Controllers: router.Controllers{
			Login:          authctrl.NewLoginController(sessions, binder, users, lookup),
			Redirect:       authctrl.NewRedirectController(sessions, binder, users, identities, client, lookup),
			Me:             authctrl.NewMeController(identities),
			DeleteIdentity: authctrl.NewDeleteIdentityController(identities),
			DeleteUser:     authctrl.NewDeleteUserController(sessions, users, identities),
			Logout:         authctrl.NewLogoutController(sessions),
			Csrf:           authctrl.NewCsrfController(binder),
		},
		Authenticate:   mw.Authenticate(sessions, users),
		SessionContext: mw.WithSessionContext(sessions),
		RequireCsrf:    mw.RequireCsrf(binder),
	})

	return &testApp{
		handler:    handler,
		sessions:   sessions,
		binder:     binder,
		users:      users,
		identities: identities,
		env:        env,
	}
}

// tokenEndpointFor responde siempre el mismo token response, con un
// id_token armado con los claims dados.
func tokenEndpointFor(t *testing.T, sub, email string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"access_token":  "at-" + sub,
			"refresh_token": "rt-" + sub,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"id_token":      makeIDToken(t, sub, email),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

// makeIDToken firma un id_token de juguete. La firma no se verifica en el
// callback, solo los claims.
func makeIDToken(t *testing.T, sub, email string) string {
	t.Helper()
	claims := jwt.MapClaims{"iss": "https://accounts.google.com"}
	if sub != "" {
		claims["sub"] = sub
	}
	if email != "" {
		claims["email"] = email
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return raw
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// startLogin hace GET /auth/login/google y devuelve la cookie de sesión y
// el state embebido en la URL de autorización.
func (a *testApp) startLogin(t *testing.T, withCookie *http.Cookie) (*http.Cookie, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/login/google", nil)
	if withCookie != nil {
		req.AddCookie(withCookie)
	}
	rec := a.do(t, req)
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	cookie := sessionCookie(t, rec)
	return cookie, state
}

// completeCallback hace GET /auth/redirect/google con code+state y devuelve
// la respuesta.
func (a *testApp) completeCallback(t *testing.T, cookie *http.Cookie, state string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet,
		"/auth/redirect/google?code=the-code&state="+url.QueryEscape(state), nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return a.do(t, req)
}

// login corre el flujo entero y devuelve la cookie de sesión autenticada.
func (a *testApp) login(t *testing.T, withCookie *http.Cookie) *http.Cookie {
	t.Helper()
	cookie, state := a.startLogin(t, withCookie)
	rec := a.completeCallback(t, cookie, state)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	return sessionCookie(t, rec)
}

// writeSessionFor emite una cookie de sesión para un usuario arbitrario,
// como si ese navegador ya estuviera logueado.
func (a *testApp) writeSessionFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, a.sessions.Write(rec, session.Session{
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	}))
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (a *testApp) userIDFor(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	rec := a.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sub string `json:"sub"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Sub
}
