package core

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	LogLevel         string        // debug, info, warn, error
	OpenRouterAPIKey string        // Required for real analysis calls
	DefaultModel     string        // Default LLM model to use
	DBPath           string        // SQLite database path
	OutboxDir        string        // Drop directory for published syntheses
	AnalysisTimeout  time.Duration // Upper bound for one analysis call
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		} else {
			slog.Warn("ignoring invalid ANALYSIS_TIMEOUT_SECONDS",
				"value", raw,
				"default", timeout.String())
		}
	}

	cfg := &Config{
		LogLevel:         logLevel,
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		DefaultModel:     getEnvOrDefault("DEFAULT_MODEL", "openrouter/anthropic/claude-3.5-sonnet"),
		DBPath:           getEnvOrDefault("LITGO_DB_PATH", "litgo.db"),
		OutboxDir:        getEnvOrDefault("LITGO_OUTBOX_DIR", "outbox"),
		AnalysisTimeout:  timeout,
	}

	// The API key is only required once an analysis is attempted; intake and
	// answer recording work without it.
	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
