package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvOverridesBase(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := FromEnv(Defaults())
	if cfg.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", cfg.Addr)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Fatalf("expected rate limit 30, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected token ttl 30m, got %s", cfg.TokenTTL)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if cfg.DefaultCurrency != "RWF" {
		t.Fatalf("expected default currency RWF, got %s", cfg.DefaultCurrency)
	}
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("RUN_MIGRATIONS", "maybe")

	cfg := FromEnv(Defaults())
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected fallback port 587, got %d", cfg.SMTPPort)
	}
	if !cfg.RunMigrations {
		t.Fatal("expected fallback run migrations true")
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paydesk.toml")
	content := "addr = \":7000\"\ndefault_currency = \"KES\"\ndatabase_url = \"postgres://file\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PAYDESK_CONFIG", path)
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("expected addr from file, got %s", cfg.Addr)
	}
	if cfg.DefaultCurrency != "KES" {
		t.Fatalf("expected currency from file, got %s", cfg.DefaultCurrency)
	}
	if cfg.DatabaseURL != "postgres://env" {
		t.Fatalf("expected env to win over file, got %s", cfg.DatabaseURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}

	cfg.DatabaseURL = "postgres://localhost/paydesk"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid development config, got %v", err)
	}

	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected production to require JWT_SECRET")
	}

	cfg.JWTSecret = "prod-secret"
	cfg.DataEncryptionKey = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid production config, got %v", err)
	}

	cfg.EmailEnabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected SMTP_HOST requirement")
	}
}
