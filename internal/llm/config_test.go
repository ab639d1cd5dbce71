package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOllama, config.Provider)
	assert.Equal(t, "llama3.1:8b", config.GetModel())
	assert.Equal(t, 5*time.Minute, config.Timeout)
	assert.Equal(t, float32(0.7), config.Temperature)
	assert.NoError(t, config.Validate())
}

func TestGetModel_FallsBackToProviderDefault(t *testing.T) {
	config := &Config{Provider: ProviderAnthropic}
	assert.Equal(t, "claude-sonnet-4-20250514", config.GetModel())

	config.Model = "claude-custom"
	assert.Equal(t, "claude-custom", config.GetModel())
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Gemini ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)

	_, err = ParseProvider("watson")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "ollama needs no key", config: Config{Provider: ProviderOllama}},
		{name: "openai needs key", config: Config{Provider: ProviderOpenAI}, wantErr: "API key is required"},
		{name: "unknown provider", config: Config{Provider: "watson"}, wantErr: "unknown LLM provider"},
		{name: "temperature too high", config: Config{Provider: ProviderOllama, Temperature: 3}, wantErr: "temperature"},
		{name: "negative concurrency", config: Config{Provider: ProviderOllama, MaxConcurrency: -1}, wantErr: "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, DefaultOllamaBaseURL, ollamaBaseURL(""))
	assert.Equal(t, "http://gpu-box:11434/v1", ollamaBaseURL("http://gpu-box:11434"))
	assert.Equal(t, "http://gpu-box:11434/v1", ollamaBaseURL("http://gpu-box:11434/v1/"))
}
