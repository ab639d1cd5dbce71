package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI and for any OpenAI-compatible server such as Ollama
type OpenAIClient struct {
	client      *openai.Client
	provider    Provider
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIClient creates a client for ProviderOpenAI or ProviderOllama
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		if config.Provider != ProviderOllama {
			return nil, fmt.Errorf("API key is required")
		}
		// Ollama ignores the key but the client always sends one.
		apiKey = "ollama"
	}

	oc := openai.DefaultConfig(apiKey)
	switch {
	case config.Provider == ProviderOllama:
		oc.BaseURL = ollamaBaseURL(config.BaseURL)
	case config.BaseURL != "":
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		provider:    config.Provider,
		model:       config.GetModel(),
		temperature: config.Temperature,
		timeout:     config.Timeout,
	}, nil
}

// Generate sends the prompts as a system and a user chat message
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	return invoke(ctx, c.provider, c.model, c.timeout, func(ctx context.Context) (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// Model returns the model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close is a no-op; the HTTP client needs no teardown
func (c *OpenAIClient) Close() error {
	return nil
}
