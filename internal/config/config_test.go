package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DocumentLimit != 3 {
		t.Errorf("expected document limit 3, got %d", cfg.DocumentLimit)
	}
	if cfg.PairingTimeout != 30*time.Second {
		t.Errorf("expected pairing timeout 30s, got %s", cfg.PairingTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_CACHE_TTL", "1m")
	t.Setenv("ALLOWED_ORIGINS", "https://app.autobooks.com.br, https://autobooks.com.br")

	cfg := config.Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.SessionCacheTTL != time.Minute {
		t.Errorf("expected cache ttl 1m, got %s", cfg.SessionCacheTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://autobooks.com.br" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BACKEND_API_KEY=from-file\nDOTENV_ONLY_KEY=\"quoted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BACKEND_API_KEY", "from-env")
	t.Setenv("DOTENV_ONLY_KEY", "")
	os.Unsetenv("DOTENV_ONLY_KEY")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := os.Getenv("BACKEND_API_KEY"); got != "from-env" {
		t.Errorf("expected env to win, got %q", got)
	}
	if got := os.Getenv("DOTENV_ONLY_KEY"); got != "quoted" {
		t.Errorf("expected value from file, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
