package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  address: ":8080"
  read_timeout: 3s
database:
  driver: mysql
  url: "user:pass@/rentals?parseTime=true"
session:
  backend: redis
  signing_key: "signing"
csrf:
  auth_key: "0123456789abcdef0123456789abcdef"
favorites:
  stale_policy: prune
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Database.Driver != "mysql" || cfg.Session.Backend != "redis" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Favorites.StalePolicy != "prune" {
		t.Errorf("expected prune policy, got %q", cfg.Favorites.StalePolicy)
	}
	if cfg.Uploads.Backend != "local" || cfg.Uploads.MaxBytes != 5<<20 {
		t.Errorf("expected upload defaults, got %+v", cfg.Uploads)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SIGNING_KEY", "from-env")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_SECURE", "true")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("expected PORT override, got %q", cfg.Server.Address)
	}
	if cfg.Session.SigningKey != "from-env" || cfg.Session.RedisDB != 2 {
		t.Errorf("unexpected session config: %+v", cfg.Session)
	}
	if !cfg.Session.Secure || !cfg.CSRF.Secure {
		t.Error("expected secure cookies")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "k")
	t.Setenv("CSRF_AUTH_KEY", strings.Repeat("x", 32))

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Session.Backend != "memory" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Session.SigningKey = "k"
		cfg.CSRF.AuthKey = strings.Repeat("x", 32)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"driver", func(c *Config) { c.Database.Driver = "postgres" }, "database driver"},
		{"signing key", func(c *Config) { c.Session.SigningKey = "" }, "signing key"},
		{"csrf key", func(c *Config) { c.CSRF.AuthKey = "short" }, "csrf"},
		{"uploads", func(c *Config) { c.Uploads.Backend = "ftp" }, "uploads backend"},
		{"policy", func(c *Config) { c.Favorites.StalePolicy = "drop" }, "stale policy"},
		{"session backend", func(c *Config) { c.Session.Backend = "file" }, "session backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
