package session

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// hkdfInfo separa la clave de firma de sesión de cualquier otro uso que se
// le dé al mismo secret maestro.
const hkdfInfo = "littlejohn/session/v1"

// Codec firma y lee la cookie de sesión.
type Codec struct {
	key    []byte
	secure bool
	quiet  bool
	now    func() time.Time
}

// Option configura un Codec.
type Option func(*Codec)

// WithQuiet silencia los warnings de lectura (para tests).
func WithQuiet() Option {
	return func(c *Codec) { c.quiet = true }
}

// WithClock inyecta el reloj (para tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec deriva la clave de firma del secret maestro vía HKDF-SHA256.
// secure controla el atributo Secure de la cookie; solo se apaga en testing.
func NewCodec(secret string, secure bool, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session: secret must be provided")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, err
	}
	c := &Codec{
		key:    key,
		secure: secure,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Encode firma la sesión como JWT HS256. El exp corre desde el momento de la
// escritura, no desde CreatedAt: renovar la cookie extiende la sesión.
func (c *Codec) Encode(s Session) (string, error) {
	if s.UserID == "" {
		return "", errors.New("session: user id must be provided")
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		Subject:   s.UserID,
		IssuedAt:  jwt.NewNumericDate(time.Unix(s.CreatedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Decode valida el JWT y reconstruye la sesión. Retorna nil ante cualquier
// problema (firma, exp, issuer, claims faltantes) y loguea la causa.
func (c *Codec) Decode(raw string) *Session {
	if raw == "" {
		return nil
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		c.warn("session cookie rejected", err)
		return nil
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		c.warn("session cookie is missing required claims", nil)
		return nil
	}
	return &Session{
		UserID:    claims.Subject,
		CreatedAt: claims.IssuedAt.Unix(),
	}
}

// Write firma la sesión y la setea como cookie en la respuesta.
func (c *Codec) Write(w http.ResponseWriter, s Session) error {
	raw, err := c.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    raw,
		Path:     "/",
		Expires:  c.now().Add(Lifetime),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteNoneMode,
	})
	return nil
}

// Read extrae la sesión del request. Retorna nil si no hay cookie o el
// token no valida; el caller decide si eso es un 401 o una sesión anónima
// nueva.
func (c *Codec) Read(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return c.Decode(cookie.Value)
}

func (c *Codec) warn(msg string, err error) {
	if c.quiet {
		return
	}
	if err != nil {
		logger.Named("session").Warn(msg, logger.Err(err))
		return
	}
	logger.Named("session").Warn(msg)
}
