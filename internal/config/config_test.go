package config

import (
	"testing"
	"time"
)

// TestParseIntEnv проверяет разбор целочисленной переменной окружения.
func TestParseIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	got, err := parseIntEnv("TEST_INT", 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}

	got, err = parseIntEnv("TEST_INT_MISSING", 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}

	t.Setenv("TEST_INT_BAD", "abc")
	if _, err := parseIntEnv("TEST_INT_BAD", 7); err == nil {
		t.Fatal("expected error for non-integer value")
	}

	t.Setenv("TEST_INT_NEG", "-1")
	if _, err := parseIntEnv("TEST_INT_NEG", 7); err == nil {
		t.Fatal("expected error for negative value")
	}
}

// TestParseDurationEnv проверяет разбор длительности из окружения.
func TestParseDurationEnv(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	got, err := parseDurationEnv("TEST_DUR", time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}

	got, err = parseDurationEnv("TEST_DUR_MISSING", time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != time.Minute {
		t.Fatalf("expected fallback 1m, got %s", got)
	}

	t.Setenv("TEST_DUR_BAD", "soon")
	if _, err := parseDurationEnv("TEST_DUR_BAD", time.Minute); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

// TestLoadDefaults проверяет загрузку конфигурации со значениями по
// умолчанию.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("RESET_TOKEN_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != StorageDriverFile {
		t.Fatalf("expected file driver by default, got %s", cfg.Storage.Driver)
	}
	if cfg.Reset.TokenIssuer != "utang-tracker" {
		t.Fatalf("expected default issuer, got %s", cfg.Reset.TokenIssuer)
	}
	if cfg.Reset.TokenTTL != 2*time.Minute {
		t.Fatalf("expected default reset TTL, got %s", cfg.Reset.TokenTTL)
	}
}

// TestLoadRequiresResetSecret проверяет обязательность секрета сброса.
func TestLoadRequiresResetSecret(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("RESET_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without reset token secret")
	}
}

// TestLoadRejectsUnknownDriver проверяет валидацию драйвера хранилища.
func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("RESET_TOKEN_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
