// Package oauth implementa la pata cliente del authorization code flow:
// configuración por proveedor desde el entorno, construcción de la URL de
// autorización, canje del code y lectura de claims del id_token.
package oauth

import (
	"os"
	"strings"
)

// Setting identifica un parámetro de configuración de un proveedor. El
// nombre real de la variable es OAUTH_{PROVIDER}_{SETTING}.
type Setting string

const (
	SettingEndpointAuth     Setting = "ENDPOINT_AUTH"
	SettingEndpointToken    Setting = "ENDPOINT_TOKEN"
	SettingEndpointRedirect Setting = "ENDPOINT_REDIRECT"
	SettingClientID         Setting = "CLIENT_ID"
	SettingClientSecret     Setting = "CLIENT_SECRET"
	SettingScope            Setting = "SCOPE"
	SettingResponseMode     Setting = "RESPONSE_MODE"

	// Settings exclusivos de Sign in with Apple, que no usa client secret
	// estático sino uno firmado con una clave EC del developer account.
	SettingAppleTeamID     Setting = "APPLE_TEAM_ID"
	SettingAppleKeyID      Setting = "APPLE_KEY_ID"
	SettingApplePrivateKey Setting = "APPLE_PRIVATE_KEY"
)

// Env resuelve una variable de entorno. Inyectable para tests.
type Env func(name string) string

// OSEnv lee del entorno del proceso.
func OSEnv(name string) string {
	return os.Getenv(name)
}

// settingName arma el nombre completo de la variable para un proveedor.
func settingName(provider string, s Setting) string {
	return "OAUTH_" + strings.ToUpper(provider) + "_" + string(s)
}
