package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Simulated response latency
	ReplyDelay     time.Duration // assistant typing time
	PeerReplyDelay time.Duration // peer typing time

	// Location permission
	LocationTimeout time.Duration // max wait for geolocation
	GeoMode         string        // "grant" or "deny" (simulated provider)
	GeoLatency      time.Duration // simulated geolocation latency

	// Catalog
	CatalogSeed string // optional YAML seed file, empty for built-in demo data

	// Rate limiting
	RateLimitRPS       float64  // per-client requests per second
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		ReplyDelay:      getDurationMS("REPLY_DELAY_MS", 1500),
		PeerReplyDelay:  getDurationMS("PEER_REPLY_DELAY_MS", 2000),
		LocationTimeout: getDurationMS("LOCATION_TIMEOUT_MS", 8000),
		GeoMode:         getEnv("GEO_MODE", "grant"),
		GeoLatency:      getDurationMS("GEO_LATENCY_MS", 400),
		CatalogSeed:     os.Getenv("CATALOG_SEED"),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 10),
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationMS(key string, defaultMS int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(defaultMS) * time.Millisecond
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
