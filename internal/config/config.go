// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is populated from environment variables with sensible defaults.
type Config struct {
	// Odds feed
	OddsAPIKey       string
	OddsAPIBaseURL   string
	OddsRegions      []string // provider region codes, e.g. uk, eu
	OddsRequestDelay time.Duration
	SportCatalogTTL  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Snapshot store (both optional; empty disables that sink)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SnapshotTTL    time.Duration
}

// Load reads configuration from environment variables. A missing
// ODDS_API_KEY is not an error: the engine runs in degraded fallback mode
// without one.
func Load() (*Config, error) {
	return &Config{
		OddsAPIKey:       envOr("ODDS_API_KEY", ""),
		OddsAPIBaseURL:   envOr("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4"),
		OddsRegions:      envList("ODDS_REGIONS", []string{"uk"}),
		OddsRequestDelay: time.Duration(envInt("ODDS_REQUEST_DELAY_MS", 300)) * time.Millisecond,
		SportCatalogTTL:  time.Duration(envInt("SPORT_CATALOG_TTL_MINUTES", 60)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		RedisAddr:      envOr("REDIS_ADDR", ""),
		RedisPassword:  envOr("REDIS_PASSWORD", ""),
		RedisDB:        envInt("REDIS_DB", 0),
		SnapshotTTL:    time.Duration(envInt("SNAPSHOT_TTL_MINUTES", 30)) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
