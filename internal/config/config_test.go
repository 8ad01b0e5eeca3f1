package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}

	def := Default()
	if cfg.Storage.Path != def.Storage.Path {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, def.Storage.Path)
	}
	if cfg.SSH.IdleTimeout != def.SSH.IdleTimeout {
		t.Errorf("SSH.IdleTimeout = %v, want %v", cfg.SSH.IdleTimeout, def.SSH.IdleTimeout)
	}
	if cfg.Handshake.Delay != 200*time.Millisecond {
		t.Errorf("Handshake.Delay = %v, want 200ms", cfg.Handshake.Delay)
	}
	if cfg.Input.SwipeThreshold != 50 {
		t.Errorf("Input.SwipeThreshold = %v, want 50", cfg.Input.SwipeThreshold)
	}
	if cfg.Web.Address != def.Web.Address {
		t.Errorf("Web.Address = %q, want %q", cfg.Web.Address, def.Web.Address)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("web:\n  address: \":9999\"\nhandshake:\n  delay: 1s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile() failed: %v", err)
	}

	if cfg.Web.Address != ":9999" {
		t.Errorf("Web.Address = %q, want :9999", cfg.Web.Address)
	}
	if cfg.Handshake.Delay != time.Second {
		t.Errorf("Handshake.Delay = %v, want 1s", cfg.Handshake.Delay)
	}
	// Unset keys keep their defaults.
	if cfg.SSH.Address != ":23234" {
		t.Errorf("SSH.Address = %q, want default", cfg.SSH.Address)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := loadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("web: [unclosed"), 0o600)
	if _, err := loadFile(path); err == nil {
		t.Error("malformed custom config should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MINI2048_WEB_ADDR":        ":7000",
		"MINI2048_DB_PATH":         "/tmp/x.db",
		"MINI2048_CORS_ORIGINS":    "https://a.example, https://b.example",
		"MINI2048_HANDSHAKE_DELAY": "50ms",
		"MINI2048_SWIPE_THRESHOLD": "80",
	}
	cfg := Default()

	if err := ApplyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Web.Address != ":7000" || cfg.Storage.Path != "/tmp/x.db" {
		t.Errorf("string overrides not applied: %+v", cfg)
	}
	if len(cfg.Web.CORSOrigins) != 2 || cfg.Web.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Web.CORSOrigins)
	}
	if cfg.Handshake.Delay != 50*time.Millisecond {
		t.Errorf("Handshake.Delay = %v, want 50ms", cfg.Handshake.Delay)
	}
	if cfg.Input.SwipeThreshold != 80 {
		t.Errorf("SwipeThreshold = %v, want 80", cfg.Input.SwipeThreshold)
	}
}

func TestApplyEnvInvalidDuration(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, func(k string) string {
		if k == "MINI2048_HANDSHAKE_TIMEOUT" {
			return "soon"
		}
		return ""
	})
	if err == nil {
		t.Error("invalid duration should fail")
	}
}
