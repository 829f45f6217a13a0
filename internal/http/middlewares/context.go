package middlewares

import (
	"context"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// WithUser guarda el usuario autenticado en el contexto.
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom retorna el usuario autenticado, o nil.
func UserFrom(ctx context.Context) *repository.User {
	u, _ := ctx.Value(userKey).(*repository.User)
	return u
}

// WithSession guarda la sesión del request en el contexto.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom retorna la sesión del request, o nil.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
