package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
  allowed_origins:
    - https://shop.example.com
auth:
  session_ttl: 12h
smtp:
  user: store@example.com
telegram:
  token: bot-token
  chat_id: -100123
orders:
  require_screenshot: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "https://shop.example.com" {
		t.Fatalf("unexpected allowed origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.Auth.SessionTTL)
	}
	if cfg.SMTP.StaffInbox() != "store@example.com" {
		t.Fatalf("staff inbox should fall back to smtp user, got %q", cfg.SMTP.StaffInbox())
	}
	if !cfg.Telegram.Enabled() {
		t.Fatalf("telegram should be enabled with token and chat id")
	}
	if cfg.Orders.RequireScreenshot {
		t.Fatalf("require_screenshot override was not applied")
	}

	if cfg.Orders.MaxScreenshotBytes != 5<<20 {
		t.Fatalf("max screenshot default should stay 5MiB, got %d", cfg.Orders.MaxScreenshotBytes)
	}
	if cfg.Auth.CookieName != "ks_admin" {
		t.Fatalf("cookie name default should stay ks_admin, got %q", cfg.Auth.CookieName)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected default session ttl: %s", cfg.Auth.SessionTTL)
	}
	if cfg.Storage.Driver != "local" {
		t.Fatalf("unexpected default storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Cashier.EventRetention != 30*24*time.Hour {
		t.Fatalf("unexpected default webhook event retention: %s", cfg.Cashier.EventRetention)
	}
	if len(cfg.HTTP.AllowedOrigins) != 3 {
		t.Fatalf("unexpected default allowed origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.SMTP.Enabled() {
		t.Fatalf("smtp must be disabled without a user")
	}
	if cfg.Telegram.Enabled() {
		t.Fatalf("telegram must be disabled without a token")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SMTP_USER", "mail@example.com")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("ADMIN_USER", "owner")
	t.Setenv("ADMIN_PASS", "secret")
	t.Setenv("TELEGRAM_CHAT_ID", "555")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.SMTP.User != "mail@example.com" || cfg.SMTP.Password != "app-password" {
		t.Fatalf("smtp env overrides not applied: %+v", cfg.SMTP)
	}
	if cfg.Admin.Username != "owner" || cfg.Admin.Password != "secret" {
		t.Fatalf("admin env overrides not applied: %+v", cfg.Admin)
	}
	if cfg.Telegram.ChatID != 555 {
		t.Fatalf("unexpected telegram chat id: %d", cfg.Telegram.ChatID)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected allowed origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.Auth.SessionTTL)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SESSION_TTL", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid SESSION_TTL")
	}
}

func TestLoadParsesTrustedProxies(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	prefixes, err := cfg.HTTP.TrustedProxyPrefixes()
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}
	if len(prefixes) != 2 {
		t.Fatalf("unexpected prefix count: got %d want %d", len(prefixes), 2)
	}
	if prefixes[0].String() != "10.0.0.0/8" || prefixes[1].String() != "192.0.2.10/32" {
		t.Fatalf("unexpected prefixes: %v", prefixes)
	}
}

func TestLoadRejectsInvalidTrustedProxy(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_TRUSTED_PROXIES", "load-balancer")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid HTTP_TRUSTED_PROXIES")
	}
}

func TestDefaultTrustsNoProxy(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.HTTP.TrustedProxies) != 0 {
		t.Fatalf("unexpected default trusted proxies: %v", cfg.HTTP.TrustedProxies)
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ADMIN_PASS", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error when session secret is the default in production")
	}
}

func TestLoadRejectsMissingWebhookSecretInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "a-real-secret")
	t.Setenv("ADMIN_PASS", "secret")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when cashier webhook secret is empty in production")
	}

	t.Setenv("CASHIER_WEBHOOK_SECRET", "whsec")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load production config: %v", err)
	}
	if cfg.Cashier.WebhookSecret != "whsec" {
		t.Fatalf("unexpected webhook secret: %q", cfg.Cashier.WebhookSecret)
	}
}

func TestLoadRejectsMissingAdminPasswordInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SESSION_SECRET", "a-real-secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error when admin password is empty in production")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"PORT",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"CORS_ALLOWED_ORIGINS",
		"HTTP_TRUSTED_PROXIES",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"STORAGE_DRIVER",
		"STORAGE_LOCAL_DIR",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"SESSION_SECRET",
		"SESSION_TTL",
		"COOKIE_SECURE",
		"ADMIN_USER",
		"ADMIN_PASS",
		"ADMIN_PASSWORD_HASH",
		"ADMIN_TOTP_SECRET",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USER",
		"SMTP_PASS",
		"SMTP_ADMIN_INBOX",
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID",
		"NOTIFY_WORKERS",
		"NOTIFY_DELIVERY_TIMEOUT",
		"RABBITMQ_URL",
		"RABBITMQ_QUEUE",
		"CASHIER_WEBHOOK_SECRET",
		"CASHIER_EVENT_RETENTION",
		"ORDERS_REQUIRE_SCREENSHOT",
	} {
		t.Setenv(key, "")
	}
}
