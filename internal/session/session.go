// Package session implementa la sesión del navegador como cookie firmada
// (JWT HS256). La sesión guarda solo la identidad del principal; todo lo
// demás vive en el store.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName es el nombre de la cookie de sesión.
	CookieName = "LJ_SES"

	// Issuer y Audience de los JWT de sesión. Solo aceptamos los propios.
	Issuer   = "littlejohn"
	Audience = "littlejohn"

	// Lifetime es la vigencia de la cookie. Cada escritura renueva el exp,
	// así que una sesión activa no expira mientras se use.
	Lifetime = 30 * 24 * time.Hour

	// anonPrefix marca los principals sintéticos de visitantes sin login.
	anonPrefix = "anon-session-"
)

// Session es el principal autenticado (o anónimo) del request.
type Session struct {
	// UserID es el id del usuario, o un principal anónimo.
	UserID string
	// CreatedAt es el instante de creación en segundos Unix. Se preserva a
	// través de renovaciones de cookie.
	CreatedAt int64
}

// NewAnonymous crea una sesión para un visitante sin usuario. El principal
// sintético permite emitir tokens CSRF antes del primer login.
func NewAnonymous() Session {
	return Session{
		UserID:    anonPrefix + uuid.NewString(),
		CreatedAt: time.Now().Unix(),
	}
}

// IsAnonymous indica si el principal es sintético (sin usuario detrás).
func (s Session) IsAnonymous() bool {
	return strings.HasPrefix(s.UserID, anonPrefix)
}
