package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr            string
	DBPath          string
	OracleKind      string
	GeminiBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
	OracleSeed      int64
	BalancePath     string
	OTLPEndpoint    string
	ShutdownTimeout time.Duration
}

type CLIConfig struct {
	APIBaseURL string
}

// LoadAPIFromEnv reads the server config. The scripted oracle is the
// default so the server runs with no credentials; TYCOON_ORACLE=gemini
// switches to the hosted narrative engine and then requires an API key.
func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("TYCOON_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		DBPath:          envDefault("TYCOON_DB_PATH", defaultDBPath()),
		OracleKind:      envOracleKindDefault(),
		GeminiBaseURL:   strings.TrimRight(envDefault("TYCOON_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:     envDefault("TYCOON_GEMINI_MODEL", ""),
		OracleSeed:      envInt64Default("TYCOON_ORACLE_SEED", time.Now().UnixNano()),
		BalancePath:     strings.TrimSpace(os.Getenv("TYCOON_BALANCE_PATH")),
		OTLPEndpoint:    strings.TrimSpace(os.Getenv("TYCOON_OTLP_ENDPOINT")),
		ShutdownTimeout: envDurationDefault("TYCOON_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if cfg.OracleKind == "gemini" && cfg.GeminiAPIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY is required when TYCOON_ORACLE=gemini")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("TYC_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tycoon.db"
	}
	return filepath.Join(home, ".tycoon", "games.db")
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envOracleKindDefault() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TYCOON_ORACLE")))
	switch v {
	case "gemini", "scripted":
		return v
	default:
		return "scripted"
	}
}
