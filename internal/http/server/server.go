// Package server cablea la aplicación completa: store, codecs, repos,
// controllers y router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/config"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/security/csrf"
	"github.com/dropDatabas3/littlejohn/internal/session"
	"github.com/dropDatabas3/littlejohn/internal/store"

	// Registro de drivers del store.
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/fs"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/pg"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/redis"
)

// providerTimeout acota los requests al token endpoint de los proveedores.
const providerTimeout = 15 * time.Second

// Build construye el handler raíz y la función de cleanup.
func Build(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, nil, err
	}

	sessions, err := session.NewCodec(cfg.Auth.SessionSecret, cfg.CookieSecure())
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	binder, err := csrf.New(cfg.Auth.CSRFSecret)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	users := repository.NewUserRepository(st)
	identities := repository.NewIdentityRepository(st)
	client := oauth.NewHTTPClient(providerTimeout)
	env := oauth.Env(oauth.OSEnv)

	handler := router.New(router.Deps{
		Store: st,
		Controllers: router.Controllers{
			Login:          authctrl.NewLoginController(sessions, binder, users, env),
			Redirect:       authctrl.NewRedirectController(sessions, binder, users, identities, client, env),
			Me:             authctrl.NewMeController(identities),
			DeleteIdentity: authctrl.NewDeleteIdentityController(identities),
			DeleteUser:     authctrl.NewDeleteUserController(sessions, users, identities),
			Logout:         authctrl.NewLogoutController(sessions),
			Csrf:           authctrl.NewCsrfController(binder),
		},
		Authenticate:       mw.Authenticate(sessions, users),
		SessionContext:     mw.WithSessionContext(sessions),
		RequireCsrf:        mw.RequireCsrf(binder),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	cleanup := func() { _ = st.Close() }
	return handler, cleanup, nil
}
