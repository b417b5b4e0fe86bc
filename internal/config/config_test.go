package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	if got := getEnv("TEST_STR", "fallback"); got != "value" {
		t.Fatalf("getEnv = %q", got)
	}
	if got := getEnv("TEST_STR_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("getEnv fallback = %q", got)
	}

	t.Setenv("TEST_DUR", "90s")
	if got := durationEnv("TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("durationEnv = %v", got)
	}
	t.Setenv("TEST_DUR_BAD", "ninety")
	if got := durationEnv("TEST_DUR_BAD", time.Minute); got != time.Minute {
		t.Fatalf("invalid duration must fall back, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := intEnv("TEST_INT", 7); got != 42 {
		t.Fatalf("intEnv = %d", got)
	}

	t.Setenv("TEST_BOOL", "true")
	if !boolEnv("TEST_BOOL", false) {
		t.Fatal("boolEnv true")
	}
	t.Setenv("TEST_BOOL_BAD", "maybe")
	if boolEnv("TEST_BOOL_BAD", false) {
		t.Fatal("invalid bool must fall back")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPPort == "" || cfg.JWTIssuer == "" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if cfg.ReportCacheTTL <= 0 {
		t.Fatalf("report cache ttl = %v", cfg.ReportCacheTTL)
	}
}
