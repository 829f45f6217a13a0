// Package token implementa tokens firmados sin estado: HMAC Based Token
// Pattern (OWASP CSRF cheat sheet). El formato es `value.expiresAt.signature`
// y es deliberadamente más compacto que un JWT equivalente.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// ErrInvalidToken se retorna al pedir el valor de un token inválido o expirado.
var ErrInvalidToken = errors.New("token is not valid")

const (
	// delimiter separa value, expiry y firma. El value no puede contenerlo.
	delimiter = "."

	// minTTL evita que un TTL mal configurado (cero, negativo) produzca
	// tokens inseguros en silencio.
	minTTL = 100 * time.Millisecond

	// randomValueBytes es el tamaño del payload aleatorio (≥64 bits).
	randomValueBytes = 8
)

// Codec crea y valida tokens firmados. Es puro y seguro para uso concurrente:
// no guarda estado por token (no hay lista de revocación).
type Codec struct {
	secret []byte
	ttl    time.Duration
	quiet  bool
	now    func() time.Time
}

// Option configura un Codec.
type Option func(*Codec)

// WithQuiet silencia los warnings de validación (para tests).
func WithQuiet() Option {
	return func(c *Codec) { c.quiet = true }
}

// WithClock inyecta el reloj (para tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// New construye un Codec. Falla si el secret está vacío o el TTL es menor al
// mínimo: un secret ausente firmaría tokens triviales de falsificar y eso
// debe detectarse en el arranque, no en runtime.
func New(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret must be provided")
	}
	if ttl < minTTL {
		return nil, fmt.Errorf("token: ttl must be at least %s", minTTL)
	}
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Create crea un token firmado. Si value está vacío genera un payload
// aleatorio de 8 bytes en base64. El value no puede contener el delimitador.
func (c *Codec) Create(value string) (string, error) {
	if value == "" {
		v, err := randomValue()
		if err != nil {
			return "", err
		}
		value = v
	} else if strings.Contains(value, delimiter) {
		return "", errors.New("token: value must not contain a period")
	}
	exp := encodeExpiresAt(c.now().Add(c.ttl))
	sig := c.sign(value, exp)
	return value + delimiter + exp + delimiter + sig, nil
}

// IsValid retorna true si el token tiene firma válida y no expiró.
// Nunca lanza error: entrada nula/malformada es simplemente inválida.
// Loguea un warning con la causa, salvo en modo quiet.
func (c *Codec) IsValid(tok string) bool {
	if tok == "" {
		return false
	}
	parts := strings.Split(tok, delimiter)
	if len(parts) != 3 {
		c.warn("token is malformed")
		return false
	}
	value, exp, sig := parts[0], parts[1], parts[2]

	// La firma se computa sobre value‖encodedExpiry (segundos enteros), no
	// sobre milisegundos: así encode/decode es reproducible entre lenguajes.
	want := c.sign(value, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		c.warn("token has invalid signature")
		return false
	}

	expSecs, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		c.warn("token has malformed expiry")
		return false
	}
	if expSecs < c.now().Unix() {
		c.warn("token has expired")
		return false
	}
	return true
}

// Value retorna el payload embebido en el token.
// Falla con ErrInvalidToken si IsValid es false.
func (c *Codec) Value(tok string) (string, error) {
	if !c.IsValid(tok) {
		return "", ErrInvalidToken
	}
	return strings.SplitN(tok, delimiter, 2)[0], nil
}

func (c *Codec) sign(value, encodedExpiresAt string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	mac.Write([]byte(encodedExpiresAt))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Codec) warn(msg string) {
	if c.quiet {
		return
	}
	logger.Named("token").Warn(msg)
}

// encodeExpiresAt trunca a segundos enteros antes de firmar.
func encodeExpiresAt(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

func randomValue() (string, error) {
	b := make([]byte, randomValueBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
