package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route family.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per Window
	Window time.Duration // refill window
	Burst  int           // bucket size, Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	modelLimit := getEnvInt("RATE_LIMIT_MODEL_LIMIT", 30)
	modelWindow := getEnvDuration("RATE_LIMIT_MODEL_WINDOW", time.Minute)

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     getEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(modelLimit, modelWindow),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Every route that calls the model shares
// the model tier; job fetching gets its own tier since it may start a headless browser.
func DefaultEndpointConfigs(modelLimit int, modelWindow time.Duration) []EndpointConfig {
	burst := max(modelLimit/5, 1)
	model := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: modelLimit, Window: modelWindow, Burst: burst}
	}
	return []EndpointConfig{
		// Tier 1: model calls
		model("/cv/upload"),
		model("/cv/upload-text"),
		model("/cv/chat"),
		model("/cv/generate"),
		model("/cv/cover-letter"),
		model("/cv/cover-letter/revise"),
		model("/cv/revise"),
		model("/resume/generate"),

		// Tier 2: scraping
		{Path: "/cv/fetch-job", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Tier 3: cheap reads and writes use the default limit
		// Tier 4: health checks are unlimited, see MatchEndpoint
	}
}

func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
