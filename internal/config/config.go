// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// State backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	FrontendURL       string
	AppEnv            string
	LogLevel          string
	StateBackend      string
	DBPath            string
	RedisURL          string
	SessionTTL        time.Duration
	ResetStateOnStart bool
	RateLimitPerMin   int
	OTelEnabled       bool
	CatalogPath       string
	LLM               LLMConfig
	Search            SearchConfig
}

// LLMConfig configures the chat-completion endpoint.
type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// SearchConfig configures the info finder.
type SearchConfig struct {
	Root             string
	MaxResults       int
	Extensions       []string
	WikipediaURL     string
	WikipediaTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		FrontendURL:       getEnv("FRONTEND_URL", ""),
		AppEnv:            getEnv("APP_ENV", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StateBackend:      strings.ToLower(getEnv("STATE_BACKEND", BackendSQLite)),
		DBPath:            getEnv("DB_PATH", "./data/demos.db"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 60*time.Minute),
		ResetStateOnStart: getEnvBool("STATE_RESET_ON_START", true),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		OTelEnabled:       getEnvBool("OTEL_ENABLED", false),
		CatalogPath:       getEnv("CATALOG_PATH", ""),
		LLM: LLMConfig{
			APIKey:     strings.TrimSpace(os.Getenv("API_KEY")),
			BaseURL:    getEnv("LLM_BASE_URL", "https://api.poe.com/v1"),
			Timeout:    getEnvDuration("LLM_TIMEOUT", 60*time.Second),
			MaxRetries: getEnvInt("LLM_MAX_RETRIES", 0),
		},
		Search: SearchConfig{
			Root:             getEnv("SEARCH_ROOT", "."),
			MaxResults:       getEnvInt("SEARCH_MAX_RESULTS", 50),
			Extensions:       getEnvList("SEARCH_EXTENSIONS", []string{".py", ".md", ".txt", ".rst"}),
			WikipediaURL:     getEnv("WIKIPEDIA_URL", "https://en.wikipedia.org"),
			WikipediaTimeout: getEnvDuration("WIKIPEDIA_TIMEOUT", 6*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StateBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL cannot be empty")
		}
	default:
		return fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendRedis, c.StateBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL cannot be empty")
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must be >= 0")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be > 0")
	}
	if len(c.Search.Extensions) == 0 {
		return fmt.Errorf("SEARCH_EXTENSIONS cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if c.AppEnv != "" {
		return c.AppEnv == "development"
	}
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

// getEnvList parses a comma-separated list, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
