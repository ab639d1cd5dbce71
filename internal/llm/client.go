package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Generate sends a system and user prompt pair and returns the raw reply text
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration. When MaxConcurrency is set
// the client is wrapped so at most that many calls are in flight.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		client Client
		err    error
	)
	switch config.Provider {
	case ProviderOllama, ProviderOpenAI:
		client, err = NewOpenAIClient(config)
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, config)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[llm] using %s model %s", config.Provider, client.Model())
	if config.MaxConcurrency > 0 {
		return NewLimitedClient(client, config.MaxConcurrency), nil
	}
	return client, nil
}

// invoke runs one provider call under the configured timeout. Cancellation of the caller's
// context is returned as the context error; every other failure becomes an UpstreamError.
func invoke(ctx context.Context, provider Provider, model string, timeout time.Duration, call func(context.Context) (string, error)) (string, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := call(callCtx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Printf("[llm] %s call cancelled after %s", model, elapsed)
			return "", ctxErr
		}
		upstream := classify(provider, err)
		log.Printf("[llm] %s call failed after %s: %v", model, elapsed, upstream)
		return "", upstream
	}

	log.Printf("[llm] %s replied with %d chars in %s", model, len(text), elapsed)
	return text, nil
}
