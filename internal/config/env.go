package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-refiner/internal/llm"
)

// providerKeyEnv names the provider-specific API key variables used when LLM_API_KEY is unset
var providerKeyEnv = map[llm.Provider]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// envReader collects parse failures so they can be reported together
type envReader struct {
	errs []string
}

func (r *envReader) string(key string, dst *string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}

func (r *envReader) int(key string, dst *int) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			r.errs = append(r.errs, fmt.Sprintf("invalid %s: %q", key, value))
			return
		}
		*dst = n
	}
}

func (r *envReader) int64(key string, dst *int64) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Sprintf("invalid %s: %q", key, value))
			return
		}
		*dst = n
	}
}

func (r *envReader) float(key string, dst *float64) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Sprintf("invalid %s: %q", key, value))
			return
		}
		*dst = f
	}
}

func (r *envReader) bool(key string, dst *bool) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			r.errs = append(r.errs, fmt.Sprintf("invalid %s: %q", key, value))
			return
		}
		*dst = b
	}
}

// duration accepts Go duration strings ("90s") or plain seconds ("90")
func (r *envReader) duration(key string, dst *Duration) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		*dst = Duration(time.Duration(seconds) * time.Second)
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("invalid %s: %q", key, value))
		return
	}
	*dst = Duration(d)
}

func (r *envReader) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config error: %s", strings.Join(r.errs, "; "))
}

// applyEnv overrides configuration values with environment variables
func (c *Config) applyEnv() error {
	var r envReader

	r.int("PORT", &c.Port)

	previousProvider := c.LLMProvider
	r.string("LLM_PROVIDER", &c.LLMProvider)
	if c.LLMProvider != previousProvider && c.LLMBaseURL == llm.DefaultOllamaBaseURL {
		c.LLMBaseURL = ""
	}
	r.string("LLM_MODEL", &c.LLMModel)
	r.string("LLM_BASE_URL", &c.LLMBaseURL)
	r.string("LLM_API_KEY", &c.LLMAPIKey)
	if c.LLMAPIKey == "" {
		if provider, err := llm.ParseProvider(c.LLMProvider); err == nil {
			if key, ok := providerKeyEnv[provider]; ok {
				r.string(key, &c.LLMAPIKey)
			}
		}
	}
	r.float("LLM_TEMPERATURE", &c.LLMTemperature)
	r.duration("LLM_TIMEOUT", &c.LLMTimeout)
	r.int("LLM_MAX_CONCURRENCY", &c.LLMMaxConcurrency)

	r.duration("SESSION_TTL", &c.SessionTTL)
	r.int("SESSION_MAX", &c.SessionMax)

	r.duration("FETCH_TIMEOUT", &c.FetchTimeout)
	r.bool("FETCH_USE_BROWSER", &c.FetchUseBrowser)
	r.string("DATABASE_URL", &c.DatabaseURL)

	r.string("CORS_ORIGIN", &c.CORSOrigin)
	r.int64("MAX_UPLOAD_BYTES", &c.MaxUploadBytes)

	r.string("DEFAULT_LANGUAGE", &c.DefaultLanguage)
	r.string("DEFAULT_COUNTRY", &c.DefaultCountry)
	c.DefaultCountry = strings.ToUpper(c.DefaultCountry)

	return r.err()
}
