package oauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// appleAudience es el aud que Apple exige en el client secret firmado.
const appleAudience = "https://appleid.apple.com"

// appleSecretLifetime acota la vida del secret firmado. Apple admite hasta
// seis meses; lo firmamos por canje, así que alcanza con un par de minutos.
const appleSecretLifetime = 2 * time.Minute

// appleClientSecret firma el client secret ES256 que Apple exige en lugar
// de un secret estático: un JWT con el team id como issuer y el client id
// como subject, firmado con la clave privada del developer account.
func (c *Config) appleClientSecret() (string, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(c.Value(SettingApplePrivateKey)))
	if err != nil {
		return "", fmt.Errorf("oauth: parse %s: %w", c.Name(SettingApplePrivateKey), err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.Value(SettingAppleTeamID),
		Subject:   c.Value(SettingClientID),
		Audience:  jwt.ClaimStrings{appleAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(appleSecretLifetime)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tok.Header["kid"] = c.Value(SettingAppleKeyID)
	return tok.SignedString(key)
}
