// Package config provides configuration loading and validation for the service.
//
// Values come from, in increasing precedence: built-in defaults, an optional JSON file,
// and environment variables. CLI flags are applied on top by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-refiner/internal/llm"
)

// Defaults
const (
	DefaultPort            = 8080
	DefaultSessionTTL      = 2 * time.Hour
	DefaultSessionMax      = 10000
	DefaultFetchTimeout    = 10 * time.Second
	DefaultCORSOrigin      = "*"
	DefaultLanguage        = "en"
	DefaultCountry         = "DK"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 30 * time.Second
)

// Duration is a time.Duration that reads "90s" style strings from JSON
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(b, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the service configuration.
type Config struct {
	Port int `json:"port,omitempty"`

	// Language model
	LLMProvider       string   `json:"llm_provider,omitempty"` // ollama, openai, gemini or anthropic
	LLMModel          string   `json:"llm_model,omitempty"`
	LLMBaseURL        string   `json:"llm_base_url,omitempty"`
	LLMAPIKey         string   `json:"llm_api_key,omitempty"`
	LLMTemperature    float64  `json:"llm_temperature,omitempty"`
	LLMTimeout        Duration `json:"llm_timeout,omitempty"`
	LLMMaxConcurrency int      `json:"llm_max_concurrency,omitempty"`

	// Sessions
	SessionTTL Duration `json:"session_ttl,omitempty"`
	SessionMax int      `json:"session_max,omitempty"`

	// Job posting fetcher
	FetchTimeout    Duration `json:"fetch_timeout,omitempty"`
	FetchUseBrowser bool     `json:"fetch_use_browser,omitempty"`
	DatabaseURL     string   `json:"database_url,omitempty"` // PostgreSQL job posting cache

	// HTTP
	CORSOrigin     string `json:"cors_origin,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`

	// Locale defaults
	DefaultLanguage string `json:"default_language,omitempty"`
	DefaultCountry  string `json:"default_country,omitempty"`
}

// Default returns the built-in configuration: a local Ollama model and in-memory caches
func Default() *Config {
	return &Config{
		Port:              DefaultPort,
		LLMProvider:       string(llm.ProviderOllama),
		LLMBaseURL:        llm.DefaultOllamaBaseURL,
		LLMTemperature:    llm.DefaultTemperature,
		LLMTimeout:        Duration(llm.DefaultTimeout),
		LLMMaxConcurrency: llm.DefaultMaxConcurrency,
		SessionTTL:        Duration(DefaultSessionTTL),
		SessionMax:        DefaultSessionMax,
		FetchTimeout:      Duration(DefaultFetchTimeout),
		CORSOrigin:        DefaultCORSOrigin,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		DefaultLanguage:   DefaultLanguage,
		DefaultCountry:    DefaultCountry,
	}
}

// Load builds the configuration from defaults, the JSON file at path (if any) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON file over the defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if _, err := llm.ParseProvider(c.LLMProvider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("config error: 'llm_temperature' must be between 0 and 2")
	}
	if c.LLMTimeout < 0 || c.SessionTTL < 0 || c.FetchTimeout < 0 {
		return fmt.Errorf("config error: durations must be non-negative")
	}
	if c.LLMMaxConcurrency < 0 {
		return fmt.Errorf("config error: 'llm_max_concurrency' must be non-negative")
	}
	if c.SessionMax < 0 {
		return fmt.Errorf("config error: 'session_max' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if len(strings.TrimSpace(c.DefaultCountry)) != 2 {
		return fmt.Errorf("config error: 'default_country' must be a two-letter country code")
	}
	return nil
}

// LLMConfig returns the model client configuration
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.LLMProvider)
	if err != nil {
		return nil, err
	}

	baseURL := c.LLMBaseURL
	if provider != llm.ProviderOllama && baseURL == llm.DefaultOllamaBaseURL {
		baseURL = ""
	}

	return &llm.Config{
		Provider:       provider,
		Model:          c.LLMModel,
		BaseURL:        baseURL,
		APIKey:         c.LLMAPIKey,
		Temperature:    float32(c.LLMTemperature),
		Timeout:        time.Duration(c.LLMTimeout),
		MaxConcurrency: c.LLMMaxConcurrency,
	}, nil
}
