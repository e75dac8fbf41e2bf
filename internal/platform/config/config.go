package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string        `toml:"addr"`
	DatabaseURL        string        `toml:"database_url"`
	JWTSecret          string        `toml:"jwt_secret"`
	TokenTTL           time.Duration `toml:"-"`
	DataEncryptionKey  string        `toml:"data_encryption_key"`
	Environment        string        `toml:"environment"`
	MigrationsDir      string        `toml:"migrations_dir"`
	RunMigrations      bool          `toml:"run_migrations"`
	DefaultCurrency    string        `toml:"default_currency"`
	InvitationTTL      time.Duration `toml:"-"`
	EmailFrom          string        `toml:"email_from"`
	EmailEnabled       bool          `toml:"email_enabled"`
	SMTPHost           string        `toml:"smtp_host"`
	SMTPPort           int           `toml:"smtp_port"`
	SMTPUser           string        `toml:"smtp_user"`
	SMTPPassword       string        `toml:"smtp_password"`
	SMTPUseTLS         bool          `toml:"smtp_use_tls"`
	MaxBodyBytes       int64         `toml:"max_body_bytes"`
	RateLimitPerMinute int           `toml:"rate_limit_per_minute"`
	MetricsEnabled     bool          `toml:"metrics_enabled"`
	ShutdownTimeout    time.Duration `toml:"-"`
}

// Defaults are the values used when neither the config file nor the
// environment sets a key.
func Defaults() Config {
	return Config{
		Addr:               ":8080",
		TokenTTL:           12 * time.Hour,
		Environment:        "development",
		MigrationsDir:      "migrations",
		RunMigrations:      true,
		DefaultCurrency:    "RWF",
		InvitationTTL:      7 * 24 * time.Hour,
		EmailFrom:          "no-reply@paydesk.local",
		SMTPPort:           587,
		SMTPUseTLS:         true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 120,
		MetricsEnabled:     true,
		ShutdownTimeout:    10 * time.Second,
	}
}

// Load reads .env (if present), then the TOML file named by PAYDESK_CONFIG
// (if set), then environment variables. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	base := Defaults()
	if path := os.Getenv("PAYDESK_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &base); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return FromEnv(base), nil
}

// FromEnv overlays environment variables on base.
func FromEnv(base Config) Config {
	return Config{
		Addr:               getEnv("APP_ADDR", base.Addr),
		DatabaseURL:        getEnv("DATABASE_URL", base.DatabaseURL),
		JWTSecret:          getEnv("JWT_SECRET", base.JWTSecret),
		TokenTTL:           getEnvDuration("TOKEN_TTL", base.TokenTTL),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", base.DataEncryptionKey),
		Environment:        getEnv("APP_ENV", base.Environment),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", base.MigrationsDir),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", base.RunMigrations),
		DefaultCurrency:    getEnv("DEFAULT_CURRENCY", base.DefaultCurrency),
		InvitationTTL:      getEnvDuration("INVITATION_TTL", base.InvitationTTL),
		EmailFrom:          getEnv("EMAIL_FROM", base.EmailFrom),
		EmailEnabled:       getEnvBool("EMAIL_ENABLED", base.EmailEnabled),
		SMTPHost:           getEnv("SMTP_HOST", base.SMTPHost),
		SMTPPort:           getEnvInt("SMTP_PORT", base.SMTPPort),
		SMTPUser:           getEnv("SMTP_USER", base.SMTPUser),
		SMTPPassword:       getEnv("SMTP_PASSWORD", base.SMTPPassword),
		SMTPUseTLS:         getEnvBool("SMTP_USE_TLS", base.SMTPUseTLS),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", int(base.MaxBodyBytes))),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", base.RateLimitPerMinute),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", base.MetricsEnabled),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", base.ShutdownTimeout),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
	}
	if c.IsProduction() && strings.TrimSpace(c.DataEncryptionKey) == "" {
		return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
	}
	if strings.TrimSpace(c.DefaultCurrency) == "" {
		return fmt.Errorf("DEFAULT_CURRENCY must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
