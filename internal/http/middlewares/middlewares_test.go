package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"
	"github.com/dropDatabas3/littlejohn/internal/security/token"
	"github.com/dropDatabas3/littlejohn/internal/session"
	"github.com/dropDatabas3/littlejohn/internal/store/adapters/memory"
)

func newSessionCodec(t *testing.T) *session.Codec {
	t.Helper()
	c, err := session.NewCodec("mw-secret", false, session.WithQuiet())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func cookieFor(t *testing.T, codec *session.Codec, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := codec.Write(rec, session.Session{UserID: userID, CreatedAt: time.Now().Unix()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	return cookies[0]
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	codec := newSessionCodec(t)
	users := repository.NewUserRepository(memory.New())
	user, err := users.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var gotUser *repository.User
	handler := Authenticate(codec, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Sin cookie: 401.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d", rec.Code)
	}

	// Cookie con usuario inexistente: 401, nunca 500.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, codec, "user-ghost"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ghost user: status = %d", rec.Code)
	}

	// Cookie válida: pasa y el usuario queda en el contexto.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, codec, user.ID))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid: status = %d", rec.Code)
	}
	if gotUser == nil || gotUser.ID != user.ID {
		t.Fatalf("user in context = %+v", gotUser)
	}
}

func TestRequireCsrf(t *testing.T) {
	binder, err := csrf.New("mw-csrf", token.WithQuiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var called bool
	handler := RequireCsrf(binder)(okHandler(&called))

	sess := &session.Session{UserID: "user-1"}
	withSession := func(r *http.Request) *http.Request {
		return r.WithContext(WithSession(r.Context(), sess))
	}

	// Sin header: 403.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodDelete, "/", nil)))
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("missing header: status = %d called = %v", rec.Code, called)
	}

	// Token de otro principal: 403.
	foreign, _ := binder.Issue("user-2")
	req := withSession(httptest.NewRequest(http.MethodDelete, "/", nil))
	req.Header.Set(csrf.HeaderName, foreign)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("foreign token: status = %d called = %v", rec.Code, called)
	}

	// Sin sesión en el contexto: 403 aunque el token sea válido.
	tok, _ := binder.Issue("user-1")
	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set(csrf.HeaderName, tok)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("no session: status = %d called = %v", rec.Code, called)
	}

	// Token correcto para el principal: pasa.
	req = withSession(httptest.NewRequest(http.MethodDelete, "/", nil))
	req.Header.Set(csrf.HeaderName, tok)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("valid token: status = %d called = %v", rec.Code, called)
	}
}

func TestWithRecover(t *testing.T) {
	handler := WithRecover()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWithCORS(t *testing.T) {
	var called bool
	handler := WithCORS([]string{"https://app.example.com"})(okHandler(&called))

	// Origin permitido.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials header missing")
	}

	// Origin no permitido: sin headers CORS.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected CORS headers for disallowed origin")
	}

	// Preflight.
	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
}
