package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Env != "dev" {
		t.Fatalf("env = %q", cfg.App.Env)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Auth.CSRFSecret == "" || cfg.Auth.SessionSecret == "" {
		t.Fatal("dev secrets should fall back to a development value")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "littlejohn.yaml")
	yaml := `
app:
  env: testing
server:
  addr: ":9999"
  read_timeout: 5s
store:
  driver: fs
  dsn: /tmp/littlejohn-data
auth:
  csrf_secret: yaml-csrf
  session_secret: yaml-session
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Driver != "fs" || cfg.Store.DSN != "/tmp/littlejohn-data" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Auth.CSRFSecret != "yaml-csrf" {
		t.Fatalf("csrf secret = %q", cfg.Auth.CSRFSecret)
	}
	if !cfg.IsTesting() {
		t.Fatal("IsTesting should be true")
	}
	if cfg.CookieSecure() {
		t.Fatal("cookies should not be Secure in testing")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("STORE_DSN", "redis://localhost:6379/0")
	t.Setenv("LJ_CSRF_SECRET", "env-csrf")
	t.Setenv("LJ_SESSION_SECRET", "env-session")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Env != "testing" || cfg.Server.Addr != ":7070" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Store.Driver != "redis" {
		t.Fatalf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Auth.CSRFSecret != "env-csrf" || cfg.Auth.SessionSecret != "env-session" {
		t.Fatalf("auth = %+v", cfg.Auth)
	}
}

func TestProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing secrets in prod")
	}
	if !strings.Contains(err.Error(), "MUST be provided in production") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("LJ_CSRF_SECRET", "prod-csrf")
	t.Setenv("LJ_SESSION_SECRET", "prod-session")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProd() || !cfg.CookieSecure() {
		t.Fatal("prod config should be secure")
	}
}
