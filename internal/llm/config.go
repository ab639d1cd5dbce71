// Package llm provides the language-model client abstraction and its provider implementations.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOllama is a local Ollama server reached through its OpenAI-compatible API
	ProviderOllama Provider = "ollama"
	// ProviderOpenAI is the OpenAI API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini API
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic Claude API
	ProviderAnthropic Provider = "anthropic"
)

// Defaults
const (
	DefaultOllamaBaseURL  = "http://localhost:11434/v1"
	DefaultTemperature    = 0.7
	DefaultTimeout        = 5 * time.Minute
	DefaultMaxConcurrency = 4
	DefaultMaxTokens      = 4096
)

var defaultModels = map[Provider]string{
	ProviderOllama:    "llama3.1:8b",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-sonnet-4-20250514",
}

// Config holds the model configuration for the application
type Config struct {
	Provider       Provider
	Model          string
	BaseURL        string
	APIKey         string
	Temperature    float32
	Timeout        time.Duration
	MaxConcurrency int
}

// DefaultConfig returns the default configuration: a local Ollama server
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOllama,
		Model:          defaultModels[ProviderOllama],
		BaseURL:        DefaultOllamaBaseURL,
		Temperature:    DefaultTemperature,
		Timeout:        DefaultTimeout,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// DefaultModel returns the model used for a provider when none is configured
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// ParseProvider parses a provider name case-insensitively
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := defaultModels[p]; !ok {
		return "", fmt.Errorf("unknown LLM provider %q (expected ollama, openai, gemini or anthropic)", name)
	}
	return p, nil
}

// GetModel returns the configured model, or the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// Validate reports configuration that cannot produce a working client
func (c *Config) Validate() error {
	if _, err := ParseProvider(string(c.Provider)); err != nil {
		return err
	}
	if c.Provider != ProviderOllama && c.APIKey == "" {
		return fmt.Errorf("API key is required for provider %s", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency must not be negative")
	}
	return nil
}

// ollamaBaseURL points a configured Ollama address at its OpenAI-compatible endpoint
func ollamaBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultOllamaBaseURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}
