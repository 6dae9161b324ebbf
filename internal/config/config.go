package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RedisAddr    string

	// Agent identity published in the format catalog
	AgentURL  string
	AgentName string

	// Base URL previews are served from
	PublicBaseURL string
	PreviewTTL    time.Duration

	// Validation configuration
	MIMECheckEnabled bool
	MIMECheckTimeout time.Duration

	// Generation configuration
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	GeminiTimeout time.Duration

	ServiceName string

	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8790")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 10*time.Second)
	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")

	cfg.AgentURL = getenv("AGENT_URL", "https://creative.example.com")
	cfg.AgentName = getenv("AGENT_NAME", "Reference Creative Agent")

	cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", "http://localhost:8790")
	cfg.PreviewTTL = envDuration("PREVIEW_TTL", 24*time.Hour)

	cfg.MIMECheckEnabled = envBool("MIME_CHECK_ENABLED", false)
	cfg.MIMECheckTimeout = envDuration("MIME_CHECK_TIMEOUT", 5*time.Second)

	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY", "")
	cfg.GeminiBaseURL = getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	cfg.GeminiModel = getenv("GEMINI_MODEL", "gemini-2.0-flash-exp")
	cfg.GeminiTimeout = envDuration("GEMINI_TIMEOUT", 30*time.Second)

	cfg.ServiceName = getenv("SERVICE_NAME", "creativeserve")

	// Tracing configuration
	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0) // Default to 100% sampling for dev

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envFloat parses a float environment variable.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
