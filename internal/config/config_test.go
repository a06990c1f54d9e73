package config

import (
	"testing"
	"time"
)

func TestLoadAPIDefaults(t *testing.T) {
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.OracleKind != "scripted" {
		t.Fatalf("oracle = %q, want scripted default", cfg.OracleKind)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
}

func TestPortOverridesAddr(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.Addr)
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	t.Setenv("TYCOON_ORACLE", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("expected missing key error")
	}

	t.Setenv("GEMINI_API_KEY", "abc")
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OracleKind != "gemini" {
		t.Fatalf("oracle = %q", cfg.OracleKind)
	}
}

func TestUnknownOracleFallsBack(t *testing.T) {
	t.Setenv("TYCOON_ORACLE", "tarot")
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OracleKind != "scripted" {
		t.Fatalf("oracle = %q, want scripted", cfg.OracleKind)
	}
}

func TestLoadCLIDefaults(t *testing.T) {
	cfg := LoadCLIFromEnv()
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	t.Setenv("TYC_API_BASE_URL", "https://play.example.com/")
	cfg = LoadCLIFromEnv()
	if cfg.APIBaseURL != "https://play.example.com" {
		t.Fatalf("base url = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
}
