package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// Config agrupa toda la configuración del proceso. Se construye una sola vez
// en el arranque y se pasa explícitamente a los constructores; ningún
// componente lee el entorno por su cuenta (excepto los settings por provider,
// que son lookups OAUTH_{PROVIDER}_* vía oauth.Env).
type Config struct {
	App struct {
		// dev | testing | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Store struct {
		// memory | fs | redis | postgres
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"store"`

	Auth struct {
		// CSRFSecret firma los tokens CSRF/state. En prod es obligatorio.
		CSRFSecret string `yaml:"csrf_secret"`
		// SessionSecret firma la cookie de sesión. En prod es obligatorio.
		SessionSecret string `yaml:"session_secret"`
	} `yaml:"auth"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// devSecretFallback es el valor que se usa fuera de prod cuando falta un
// secret. Nunca debe ser alcanzable en prod: Load falla antes.
const devSecretFallback = "littlejohn-dev-secret"

// Load lee el YAML (si path no está vacío y existe), aplica defaults y
// overrides por entorno, y valida los secrets según el modo de despliegue.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.applyEnvOverrides()

	if err := c.resolveSecrets(); err != nil {
		return nil, err
	}

	return &c, nil
}

// IsProd indica modo producción (guardas duras de secrets y cookies).
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod")
}

// IsTesting indica modo testing (cookies sin Secure).
func (c *Config) IsTesting() bool {
	return strings.EqualFold(c.App.Env, "testing")
}

// CookieSecure indica si la cookie de sesión lleva el atributo Secure.
// Solo se apaga en testing, nunca en dev ni prod.
func (c *Config) CookieSecure() bool {
	return !c.IsTesting()
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvDur("SERVER_READ_TIMEOUT"); ok {
		c.Server.ReadTimeout = v
	}
	if v, ok := getEnvDur("SERVER_WRITE_TIMEOUT"); ok {
		c.Server.WriteTimeout = v
	}
	if v, ok := getEnvStr("STORE_DRIVER"); ok {
		c.Store.Driver = v
	}
	if v, ok := getEnvStr("STORE_DSN"); ok {
		c.Store.DSN = v
	}
	if v, ok := getEnvStr("LJ_CSRF_SECRET"); ok {
		c.Auth.CSRFSecret = v
	}
	if v, ok := getEnvStr("LJ_SESSION_SECRET"); ok {
		c.Auth.SessionSecret = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

// resolveSecrets aplica la política de secrets: en prod un secret ausente es
// error fatal de arranque; fuera de prod cae a un valor fijo de desarrollo
// con warning. El fallback jamás debe llegar a prod.
func (c *Config) resolveSecrets() error {
	var err error
	if c.Auth.CSRFSecret, err = c.resolveSecret("LJ_CSRF_SECRET", c.Auth.CSRFSecret); err != nil {
		return err
	}
	if c.Auth.SessionSecret, err = c.resolveSecret("LJ_SESSION_SECRET", c.Auth.SessionSecret); err != nil {
		return err
	}
	return nil
}

func (c *Config) resolveSecret(name, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	if c.IsProd() {
		return "", fmt.Errorf("config: %s MUST be provided in production environments", name)
	}
	logger.Named("config").Warn(
		"secret not configured, falling back to development value; this is a fatal error in prod",
		logger.Setting(name),
	)
	return devSecretFallback + "-" + c.App.Env, nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
