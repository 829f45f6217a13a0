// Package csrf ata tokens firmados a un principal (double submit con binding
// al sujeto de la sesión). El token viaja en un header custom, nunca en la
// cookie que lo originó.
package csrf

import (
	"time"

	"github.com/dropDatabas3/littlejohn/internal/security/token"
)

// HeaderName es el header donde el cliente envía el token CSRF.
const HeaderName = "X-CSRF-Token"

// TokenLifetime es la vigencia de un token CSRF.
const TokenLifetime = 24 * time.Hour

// Binder emite y valida tokens CSRF ligados a un principal (el user id de la
// sesión, anónima o no). Un token emitido para un principal no valida para
// ningún otro.
type Binder struct {
	codec *token.Codec
}

// New construye un Binder con el secret dado.
func New(secret string, opts ...token.Option) (*Binder, error) {
	c, err := token.New(secret, TokenLifetime, opts...)
	if err != nil {
		return nil, err
	}
	return &Binder{codec: c}, nil
}

// Issue emite un token CSRF para el principal dado.
func (b *Binder) Issue(principalID string) (string, error) {
	return b.codec.Create(principalID)
}

// Validate retorna true si el token es válido, vigente y pertenece al
// principal dado.
func (b *Binder) Validate(tok, principalID string) bool {
	v, err := b.codec.Value(tok)
	if err != nil {
		return false
	}
	return v == principalID
}
