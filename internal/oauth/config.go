package oauth

import (
	"net/url"
)

// appleTokenEndpoint identifica a Sign in with Apple: es el único proveedor
// que exige un client secret firmado en vez de uno estático.
const appleTokenEndpoint = "https://appleid.apple.com/auth/token"

// defaultScope se usa cuando el proveedor no configura SCOPE. Pedimos lo
// mínimo para resolver identidad: sub y email.
const defaultScope = "openid email"

// Config resuelve la configuración de un proveedor concreto ("google",
// "apple"...) desde el entorno. No cachea: cada lectura va al Env, así un
// secret rotado se toma sin reiniciar.
type Config struct {
	provider string
	env      Env
}

// NewConfig crea la configuración del proveedor dado. Si env es nil se usa
// el entorno del proceso.
func NewConfig(provider string, env Env) *Config {
	if env == nil {
		env = OSEnv
	}
	return &Config{provider: provider, env: env}
}

// Provider retorna el nombre del proveedor.
func (c *Config) Provider() string {
	return c.provider
}

// Name retorna el nombre completo de la variable de entorno del setting.
func (c *Config) Name(s Setting) string {
	return settingName(c.provider, s)
}

// Value retorna el valor del setting, o "" si no está configurado.
func (c *Config) Value(s Setting) string {
	return c.env(c.Name(s))
}

// IsSignInWithApple detecta Apple por su token endpoint, no por el nombre
// del proveedor: el operador puede llamarlo como quiera.
func (c *Config) IsSignInWithApple() bool {
	return c.Value(SettingEndpointToken) == appleTokenEndpoint
}

// Validate retorna la lista de settings faltantes como texto legible, o ""
// si la configuración está completa. Apple reemplaza el client secret
// estático por la terna team/key/private key y exige response mode (el
// form_post que Apple requiere cuando se pide scope).
func (c *Config) Validate() string {
	required := []Setting{
		SettingEndpointAuth,
		SettingEndpointToken,
		SettingEndpointRedirect,
		SettingClientID,
	}
	if c.IsSignInWithApple() {
		required = append(required,
			SettingAppleTeamID,
			SettingAppleKeyID,
			SettingApplePrivateKey,
			SettingResponseMode,
		)
	} else {
		required = append(required, SettingClientSecret)
	}

	missing := ""
	for _, s := range required {
		if c.Value(s) == "" {
			if missing != "" {
				missing += ", "
			}
			missing += c.Name(s)
		}
	}
	return missing
}

// AuthCodeURL arma la URL de autorización a la que se redirige el navegador.
func (c *Config) AuthCodeURL(state string) (string, error) {
	base, err := url.Parse(c.Value(SettingEndpointAuth))
	if err != nil {
		return "", err
	}
	q := base.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.Value(SettingClientID))
	q.Set("redirect_uri", c.Value(SettingEndpointRedirect))
	q.Set("state", state)
	scope := c.Value(SettingScope)
	if scope == "" {
		scope = defaultScope
	}
	q.Set("scope", scope)
	if mode := c.Value(SettingResponseMode); mode != "" {
		q.Set("response_mode", mode)
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// ClientSecret retorna el secret a usar en el canje del code: el estático
// configurado, o uno firmado al vuelo para Apple.
func (c *Config) ClientSecret() (string, error) {
	if c.IsSignInWithApple() {
		return c.appleClientSecret()
	}
	return c.Value(SettingClientSecret), nil
}
